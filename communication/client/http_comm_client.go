package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"xiangqi/communication"
	"xiangqi/engine"
)

type ClientCommunicator struct {
	serverURL string
	http      *http.Client
}

// NewClientCommunicator initializes and returns a new ClientCommunicator.
func NewClientCommunicator(serverURL string, client *http.Client) *ClientCommunicator {
	if client == nil {
		client = http.DefaultClient
	}
	return &ClientCommunicator{
		serverURL: strings.TrimRight(serverURL, "/"),
		http:      client,
	}
}

func (cc *ClientCommunicator) GetSnapshot(ctx context.Context) (engine.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cc.serverURL+"/snapshot", nil)
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("build snapshot request: %w", err)
	}
	resp, err := cc.http.Do(req)
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return engine.Snapshot{}, statusError(resp)
	}

	var snap engine.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return engine.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

func (cc *ClientCommunicator) SendMove(ctx context.Context, cmd engine.MoveCommand) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encode move: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cc.serverURL+"/move", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build move request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := cc.http.Do(req)
	if err != nil {
		return fmt.Errorf("send move: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusAccepted:
		return nil
	case http.StatusTooManyRequests:
		return fmt.Errorf("send move %s: %w", cmd, communication.ErrRateLimited)
	}
	return statusError(resp)
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
}
