package sampler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"reflect"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/katalvlaran/labsearch/interactions"
	"github.com/katalvlaran/labsearch/sequence"
)

// DefaultTimeout bounds one remote sampling call when the caller's context
// carries no deadline of its own.
const DefaultTimeout = 2 * time.Minute

// maxResponseBytes caps the response body read from a remote sampler.
const maxResponseBytes = 64 << 20

// Request is the JSON body posted to a remote sampler. Angles are the
// per-step rotation angles θ of the counterdiabatic schedule; G2 and G4 are
// the interaction index sets they apply to.
type Request struct {
	N         int                    `json:"n"`
	PopSize   int                    `json:"pop_size"`
	TotalTime float64                `json:"total_time"`
	Steps     int                    `json:"steps"`
	Angles    []float64              `json:"angles"`
	G2        []interactions.Pair    `json:"g2"`
	G4        []interactions.Quartet `json:"g4"`
}

// Response is the JSON body a remote sampler answers with. Samples holds
// ±1 vectors; Bitstrings holds measurement outcomes where '0' maps to +1
// and '1' maps to −1. Either may be used, both are concatenated.
type Response struct {
	Samples    [][]float64 `json:"samples,omitempty"`
	Bitstrings []string    `json:"bitstrings,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Remote posts sampling requests to an HTTP endpoint.
type Remote struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
	timeout  time.Duration
}

// RemoteOption configures a Remote.
type RemoteOption func(*Remote)

// WithHTTPClient replaces the traced default client. Panics on nil.
func WithHTTPClient(c *http.Client) RemoteOption {
	if c == nil {
		panic("sampler: WithHTTPClient(nil)")
	}
	return func(r *Remote) { r.client = c }
}

// WithLogger sets the logger. Panics on nil.
func WithLogger(l *slog.Logger) RemoteOption {
	if l == nil {
		panic("sampler: WithLogger(nil)")
	}
	return func(r *Remote) { r.logger = l }
}

// WithTimeout sets the per-call timeout. Panics on d <= 0.
func WithTimeout(d time.Duration) RemoteOption {
	if d <= 0 {
		panic("sampler: WithTimeout(d<=0)")
	}
	return func(r *Remote) { r.timeout = d }
}

// NewRemote returns a Remote posting to endpoint. The default client is
// instrumented with OpenTelemetry so remote calls join the caller's trace.
func NewRemote(endpoint string, opts ...RemoteOption) *Remote {
	r := &Remote{
		endpoint: endpoint,
		client:   &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		logger:   slog.New(slog.DiscardHandler),
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// SamplePopulation builds the angle schedule for (n, total, steps), posts
// it and decodes the returned population. The result is validated.
func (r *Remote) SamplePopulation(ctx context.Context, n, popSize int, total float64, steps int) ([]sequence.Sequence, error) {
	sched, err := interactions.NewSchedule(n, total, steps)
	if err != nil {
		return nil, fmt.Errorf("sampler: schedule: %w", err)
	}
	angles, err := sched.Angles()
	if err != nil {
		return nil, fmt.Errorf("sampler: schedule: %w", err)
	}
	topo := sched.Topology()
	g2, g4 := sched.Interactions()

	body, err := json.Marshal(Request{
		N: n, PopSize: popSize, TotalTime: total, Steps: steps,
		Angles: angles, G2: g2, G4: g4,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %w", ErrRemote, err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemote, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemote, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrRemote, err)
	}
	var out Response
	if len(raw) > 0 {
		if err = decodeResponse(raw, &out); err != nil && resp.StatusCode == http.StatusOK {
			return nil, err
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrRemote, resp.StatusCode, out.Error)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrRemote, out.Error)
	}

	pop, err := decodePopulation(out)
	if err != nil {
		return nil, err
	}
	if err = Validate(pop, n, popSize); err != nil {
		return nil, err
	}

	r.logger.Debug("remote population sampled",
		slog.String("endpoint", r.endpoint),
		slog.Int("n", n),
		slog.Int("pop_size", popSize),
		slog.Int("steps", steps),
		slog.Int("g2", topo.Pairs),
		slog.Int("g4", topo.Quartets),
		slog.Duration("elapsed", time.Since(start)),
	)

	return pop, nil
}

// decodeResponse unmarshals raw into out. JSON has no NaN or Inf literals,
// so a non-finite sample can only arrive as a number overflowing float64;
// that case reports ErrNonFiniteResult, any other failure ErrRemote.
func decodeResponse(raw []byte, out *Response) error {
	err := json.Unmarshal(raw, out)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Type != nil && typeErr.Type.Kind() == reflect.Float64 &&
		strings.HasPrefix(typeErr.Value, "number") {
		return fmt.Errorf("%w: %s in samples", ErrNonFiniteResult, typeErr.Value)
	}

	return fmt.Errorf("%w: decode response: %w", ErrRemote, err)
}

// decodePopulation converts a Response into sequences. The NaN/Inf check
// guards Responses built in-process; decodeResponse covers the wire.
func decodePopulation(r Response) ([]sequence.Sequence, error) {
	pop := make([]sequence.Sequence, 0, len(r.Samples)+len(r.Bitstrings))
	for i, row := range r.Samples {
		s := make(sequence.Sequence, len(row))
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("sample %d position %d: %w", i, j, ErrNonFiniteResult)
			}
			switch v {
			case 1:
				s[j] = sequence.Up
			case -1:
				s[j] = sequence.Down
			default:
				return nil, fmt.Errorf("%w: sample %d position %d: value %v", ErrInvalidPopulation, i, j, v)
			}
		}
		pop = append(pop, s)
	}
	for i, bits := range r.Bitstrings {
		s := make(sequence.Sequence, len(bits))
		for j := 0; j < len(bits); j++ {
			switch bits[j] {
			case '0':
				s[j] = sequence.Up
			case '1':
				s[j] = sequence.Down
			default:
				return nil, fmt.Errorf("%w: bitstring %d position %d: %q", ErrInvalidPopulation, i, j, bits[j])
			}
		}
		pop = append(pop, s)
	}

	return pop, nil
}
