package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ctf/agent"
	"ctf/communication"
	"ctf/experiments/metrics"
	"ctf/game"

	"github.com/rs/zerolog/log"
)

const DefaultTimeout = 30 * time.Second

// RemoteAgent forwards moves to an agent server.
type RemoteAgent struct {
	serverURL string
	client    *http.Client
}

var _ agent.Agent = (*RemoteAgent)(nil)

// NewRemoteAgent returns an agent backed by the server at serverURL. A nil
// client uses one with DefaultTimeout.
func NewRemoteAgent(serverURL string, client *http.Client) *RemoteAgent {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &RemoteAgent{
		serverURL: strings.TrimSuffix(serverURL, "/"),
		client:    client,
	}
}

// FindMove asks the server for a move. Transport failures are logged and
// answered with Stop.
func (ra *RemoteAgent) FindMove(state game.State, index int) (game.Action, metrics.SearchMetric) {
	resp, err := ra.requestMove(state, index)
	if err != nil {
		log.Error().Err(err).Msgf("remote agent %d at %s failed", index, ra.serverURL)
		return game.Stop, metrics.SearchMetric{}
	}
	return resp.Action, resp.Metric
}

func (ra *RemoteAgent) requestMove(state game.State, index int) (*communication.FindMoveResponse, error) {
	gs, ok := state.(*game.GameState)
	if !ok {
		return nil, fmt.Errorf("cannot send state of type %T", state)
	}

	body, err := json.Marshal(communication.FindMoveRequest{
		Layout: gs.Layout().String(),
		State:  gs.Snapshot(),
		Agent:  index,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := ra.client.Post(ra.serverURL+communication.FindMovePath, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to reach agent server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("agent server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(out)))
	}

	var move communication.FindMoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&move); err != nil {
		return nil, fmt.Errorf("failed to decode move: %w", err)
	}
	return &move, nil
}
