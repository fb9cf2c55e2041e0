// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AleutianAI/AleutianSolver/services/solver/datatypes"
	"github.com/AleutianAI/AleutianSolver/services/solver/tiles"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialReplay(t *testing.T, env *testEnv) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(env.router)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/puzzle/solve/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(10*time.Second)))
	return ws
}

func readFrame(t *testing.T, ws *websocket.Conn) map[string]json.RawMessage {
	t.Helper()
	var frame map[string]json.RawMessage
	require.NoError(t, ws.ReadJSON(&frame))
	return frame
}

func TestHandleReplayPuzzle_StreamsFrames(t *testing.T) {
	env := newTestEnv(t, Config{ReplayDelay: time.Millisecond})
	ws := dialReplay(t, env)

	require.NoError(t, ws.WriteJSON(datatypes.PuzzleSolveRequest{
		Board: [][]int{{1, 2, 3}, {4, 5, 6}, {0, 7, 8}},
	}))

	var first datatypes.ReplayFrame
	require.NoError(t, ws.ReadJSON(&first))
	assert.Equal(t, 0, first.Step)
	assert.Empty(t, first.Move)
	assert.Equal(t, [][]int{{1, 2, 3}, {4, 5, 6}, {0, 7, 8}}, first.Board)

	var moves []string
	var last datatypes.ReplayFrame
	for i := 1; i <= 2; i++ {
		require.NoError(t, ws.ReadJSON(&last))
		assert.Equal(t, i, last.Step)
		moves = append(moves, last.Move)
	}
	assert.Equal(t, []string{"RIGHT", "RIGHT"}, moves)
	assert.Equal(t, tiles.Goal().Rows(), last.Board)

	var done datatypes.ReplayDone
	require.NoError(t, ws.ReadJSON(&done))
	assert.True(t, done.Done)
	assert.Equal(t, 2, done.TotalCost)

	rec, err := env.archive.Get(done.SolutionID)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Steps)
	assert.Equal(t, 3.0, testutil.ToFloat64(env.metrics.ReplayFramesTotal))
}

func TestHandleReplayPuzzle_ErrorKeepsConnectionOpen(t *testing.T) {
	env := newTestEnv(t, Config{})
	ws := dialReplay(t, env)

	require.NoError(t, ws.WriteJSON(map[string]any{"board": [][]int{{1, 1, 1}}}))
	frame := readFrame(t, ws)
	assert.Contains(t, frame, "error")

	require.NoError(t, ws.WriteJSON(datatypes.PuzzleSolveRequest{
		Board: [][]int{{1, 2, 3}, {4, 5, 6}, {7, 8, 0}},
	}))
	frame = readFrame(t, ws)
	assert.JSONEq(t, `0`, string(frame["step"]))

	frame = readFrame(t, ws)
	assert.JSONEq(t, `true`, string(frame["done"]))
	assert.JSONEq(t, `0`, string(frame["total_cost"]))
}
