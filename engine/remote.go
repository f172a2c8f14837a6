package engine

import (
	"fmt"
	"net/http"

	"ctf/agent"
	"ctf/communication/client"
	"ctf/game"
)

// NewRemoteEngine runs a game locally with every agent served over HTTP, one
// server URL per agent index. The same URL may serve several agents.
func NewRemoteEngine(layout *game.Layout, rules game.Rules, urls []string, httpClient *http.Client, options ...Option) *LocalEngine {
	if len(urls) != layout.NumAgents() {
		panic(fmt.Sprintf("layout has %d agents, got %d agent URLs", layout.NumAgents(), len(urls)))
	}
	agents := make([]agent.Agent, len(urls))
	for i, url := range urls {
		agents[i] = client.NewRemoteAgent(url, httpClient)
	}
	return NewLocalEngine(layout, rules, agents, options...)
}
