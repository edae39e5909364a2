package engine

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/pkg/logger"
)

// Bridge drives the simulation tool through an external bridge process,
// speaking newline-delimited JSON over the child's stdin/stdout. The child
// owns the actual solver session; the Bridge owns the child. Requests and
// responses alternate strictly, matching the one-trial-at-a-time run model.
type Bridge struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	enc    *json.Encoder
	out    *bufio.Scanner
	nextID int64
	closed bool
}

// BridgeConfig configures the bridge process and its model session.
type BridgeConfig struct {
	// Command is the bridge executable and its arguments.
	Command []string
	// ModelPath is the model file the bridge loads on startup.
	ModelPath string
	// Cores and Version are forwarded to the solver session.
	Cores   int
	Version string
}

type bridgeRequest struct {
	ID    int64   `json:"id"`
	Op    string  `json:"op"`
	Name  string  `json:"name,omitempty"`
	Value float64 `json:"value,omitempty"`

	// load fields
	Model   string `json:"model,omitempty"`
	Cores   int    `json:"cores,omitempty"`
	Version string `json:"version,omitempty"`
}

type bridgeResponse struct {
	ID     int64              `json:"id"`
	OK     bool               `json:"ok"`
	Value  float64            `json:"value,omitempty"`
	Params map[string]float64 `json:"params,omitempty"`
	Error  string             `json:"error,omitempty"`
	// Kind tags recoverable failures: "not_found" or "solve_failed".
	Kind string `json:"kind,omitempty"`
}

// StartBridge spawns the bridge process and loads the model. On any startup
// failure the child is torn down before returning.
func StartBridge(ctx context.Context, cfg BridgeConfig) (*Bridge, error) {
	if len(cfg.Command) == 0 {
		return nil, fmt.Errorf("bridge command is empty")
	}

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open bridge stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open bridge stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start bridge %s: %w", cfg.Command[0], err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	b := &Bridge{
		cmd:   cmd,
		stdin: stdin,
		enc:   json.NewEncoder(stdin),
		out:   scanner,
	}

	logger.Info("bridge started", "command", cfg.Command[0], "model", cfg.ModelPath)
	if _, err := b.roundTrip(bridgeRequest{
		Op:      "load",
		Model:   cfg.ModelPath,
		Cores:   cfg.Cores,
		Version: cfg.Version,
	}); err != nil {
		b.kill()
		return nil, fmt.Errorf("failed to load model %s: %w", cfg.ModelPath, err)
	}
	return b, nil
}

// roundTrip writes one request and reads the matching response.
func (b *Bridge) roundTrip(req bridgeRequest) (*bridgeResponse, error) {
	if b.closed {
		return nil, ErrClosed
	}
	b.nextID++
	req.ID = b.nextID

	if err := b.enc.Encode(&req); err != nil {
		return nil, fmt.Errorf("bridge write failed: %w", err)
	}
	if !b.out.Scan() {
		if err := b.out.Err(); err != nil {
			return nil, fmt.Errorf("bridge read failed: %w", err)
		}
		return nil, fmt.Errorf("bridge closed its output during op %s", req.Op)
	}

	var resp bridgeResponse
	if err := json.Unmarshal(b.out.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("bridge sent malformed response: %w", err)
	}
	if resp.ID != req.ID {
		return nil, fmt.Errorf("bridge response id %d does not match request id %d", resp.ID, req.ID)
	}
	if !resp.OK {
		switch resp.Kind {
		case "not_found":
			return nil, fmt.Errorf("%w: %s", ErrExpressionNotFound, resp.Error)
		case "solve_failed":
			return nil, fmt.Errorf("%w: %s", ErrSolveFailed, resp.Error)
		default:
			return nil, fmt.Errorf("bridge op %s failed: %s", req.Op, resp.Error)
		}
	}
	return &resp, nil
}

// SetParameter sets a named scalar parameter in the loaded model.
func (b *Bridge) SetParameter(name string, value float64) error {
	_, err := b.roundTrip(bridgeRequest{Op: "set_param", Name: name, Value: value})
	return err
}

// Solve triggers one solve. The blocking read is bounded only by ctx through
// the process handle: cancelling ctx kills the child, which unblocks the read.
func (b *Bridge) Solve(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := b.roundTrip(bridgeRequest{Op: "solve"})
	return err
}

// Evaluate evaluates a named scalar expression against the last solution.
func (b *Bridge) Evaluate(name string) (float64, error) {
	resp, err := b.roundTrip(bridgeRequest{Op: "eval", Name: name})
	if err != nil {
		return 0, err
	}
	return resp.Value, nil
}

// Parameters lists the model parameters and their current values.
func (b *Bridge) Parameters() (map[string]float64, error) {
	resp, err := b.roundTrip(bridgeRequest{Op: "params"})
	if err != nil {
		return nil, err
	}
	return resp.Params, nil
}

// Save persists the model file.
func (b *Bridge) Save() error {
	_, err := b.roundTrip(bridgeRequest{Op: "save"})
	return err
}

// Close asks the bridge to shut down cleanly, then reaps the child. A bridge
// that ignores the request is killed after a grace period.
func (b *Bridge) Close() error {
	if b.closed {
		return nil
	}
	_, closeErr := b.roundTrip(bridgeRequest{Op: "close"})
	b.closed = true
	_ = b.stdin.Close()

	done := make(chan error, 1)
	go func() { done <- b.cmd.Wait() }()
	select {
	case err := <-done:
		if closeErr != nil {
			return closeErr
		}
		return err
	case <-time.After(10 * time.Second):
		logger.Warn("bridge did not exit, killing", "command", b.cmd.Path)
		b.kill()
		<-done
		return closeErr
	}
}

// kill forcibly tears the child down; used on fatal errors where a clean
// close is no longer possible.
func (b *Bridge) kill() {
	b.closed = true
	if b.cmd.Process != nil {
		_ = b.cmd.Process.Kill()
	}
	_ = b.stdin.Close()
}
