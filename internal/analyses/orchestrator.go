package analyses

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"enhanceme/internal/extract"
	"enhanceme/internal/session"
	"enhanceme/internal/shared/metrics"
	"enhanceme/internal/shared/storage/object"
	"enhanceme/internal/shared/telemetry"
	"enhanceme/internal/uploads"
)

// State is the orchestration state of a session.
type State string

const (
	StateIdle      State = "idle"
	StateAnalyzing State = "analyzing"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Snapshot is a point-in-time view of a session flow.
type Snapshot struct {
	State    State   `json:"state"`
	Analysis *Result `json:"analysis,omitempty"`
	Error    string  `json:"error,omitempty"`
	FileName string  `json:"fileName,omitempty"`
}

// Upload is a user-selected file.
type Upload struct {
	FileName  string
	MediaType string
	Data      []byte
}

// Orchestrator owns one Flow per session.
type Orchestrator struct {
	Analyzer Analyzer
	Sessions session.Store
	// Archive is optional; nil disables upload archiving.
	Archive object.Store
	// Timeout bounds the Analyzer call when positive. Hitting it fails the
	// run with ErrAnalysisTimeout.
	Timeout time.Duration
	// FlowTTL drops idle flows that have not been touched for this long.
	FlowTTL time.Duration

	now   func() time.Time
	mu    sync.Mutex
	flows map[string]*Flow
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(analyzer Analyzer, sessions session.Store, archive object.Store, timeout, flowTTL time.Duration) *Orchestrator {
	return &Orchestrator{
		Analyzer: analyzer,
		Sessions: sessions,
		Archive:  archive,
		Timeout:  timeout,
		FlowTTL:  flowTTL,
	}
}

func (o *Orchestrator) clock() time.Time {
	if o.now != nil {
		return o.now()
	}
	return time.Now()
}

// Flow returns the session's flow, creating an Idle one when absent.
func (o *Orchestrator) Flow(sessionID string) *Flow {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.flows == nil {
		o.flows = make(map[string]*Flow)
	}
	if f, ok := o.flows[sessionID]; ok {
		return f
	}
	o.sweepLocked()
	f := &Flow{o: o, sessionID: sessionID, state: StateIdle, touched: o.clock()}
	o.flows[sessionID] = f
	return f
}

func (o *Orchestrator) lookup(sessionID string) (*Flow, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	f, ok := o.flows[sessionID]
	return f, ok
}

func (o *Orchestrator) sweepLocked() {
	ttl := o.FlowTTL
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	cutoff := o.clock().Add(-ttl)
	for id, f := range o.flows {
		if f.stale(cutoff) {
			delete(o.flows, id)
		}
	}
}

// Current returns the session's snapshot. Without a live flow it falls
// back to the stored lastAnalysis.
func (o *Orchestrator) Current(ctx context.Context, sessionID string) (Snapshot, error) {
	if f, ok := o.lookup(sessionID); ok {
		return f.Snapshot(), nil
	}
	if o.Sessions == nil {
		return Snapshot{State: StateIdle}, nil
	}
	result, err := LoadAnalysis(ctx, o.Sessions, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return Snapshot{State: StateIdle}, nil
	}
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{State: StateSucceeded, Analysis: result}, nil
}

// End discards the session: a running analysis is superseded, the flow is
// dropped and every stored value is cleared.
func (o *Orchestrator) End(ctx context.Context, sessionID string) error {
	o.mu.Lock()
	f, ok := o.flows[sessionID]
	delete(o.flows, sessionID)
	o.mu.Unlock()
	if ok {
		f.Reset()
	}
	if o.Sessions == nil {
		return nil
	}
	if err := o.Sessions.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	telemetry.Info("session.ended", map[string]any{"session_id": sessionID})
	return nil
}

// Flow is the per-session analysis state machine.
type Flow struct {
	o         *Orchestrator
	sessionID string

	mu       sync.Mutex
	state    State
	attempt  uint64
	result   *Result
	errMsg   string
	fileName string
	touched  time.Time
}

// Run validates the upload and, when no other analysis is running, drives
// it through extraction and analysis. The returned snapshot reflects the
// state after the attempt.
func (f *Flow) Run(ctx context.Context, up Upload) (Snapshot, error) {
	f.mu.Lock()
	if f.state == StateAnalyzing {
		snap := f.snapshotLocked()
		f.mu.Unlock()
		return snap, ErrAnalysisInFlight
	}
	if err := uploads.Validate(up.MediaType, int64(len(up.Data))); err != nil {
		snap := f.snapshotLocked()
		f.mu.Unlock()
		return snap, err
	}
	f.attempt++
	attempt := f.attempt
	f.state = StateAnalyzing
	f.result = nil
	f.errMsg = ""
	f.fileName = up.FileName
	f.touched = f.o.clock()
	f.mu.Unlock()

	metrics.IncAnalysisStarted()
	start := time.Now()
	text, result, err := f.o.process(ctx, f.sessionID, up)
	metrics.ObserveAnalysisDuration(time.Since(start))

	f.mu.Lock()
	if f.attempt != attempt || f.state != StateAnalyzing {
		snap := f.snapshotLocked()
		f.mu.Unlock()
		telemetry.Info("analysis.superseded", map[string]any{"session_id": f.sessionID})
		return snap, ErrSuperseded
	}
	f.touched = f.o.clock()

	if err != nil {
		f.state = StateFailed
		f.errMsg = UserMessage(err)
		snap := f.snapshotLocked()
		f.mu.Unlock()

		category := Category(err)
		metrics.IncAnalysisFailed(category)
		telemetry.Warn("analysis.failed", map[string]any{
			"session_id": f.sessionID,
			"file_name":  up.FileName,
			"category":   category,
			"error":      err.Error(),
		})
		return snap, err
	}

	f.state = StateSucceeded
	f.result = &result
	snap := f.snapshotLocked()
	f.mu.Unlock()

	// Store writes happen outside the flow lock.
	metrics.IncAnalysisCompleted()
	f.o.persist(ctx, f.sessionID, text, result)
	telemetry.Info("analysis.succeeded", map[string]any{
		"session_id":    f.sessionID,
		"file_name":     up.FileName,
		"overall_score": result.OverallScore,
		"duration_ms":   time.Since(start).Milliseconds(),
	})
	return snap, nil
}

// Reset returns the flow to Idle. An in-flight run keeps going but its
// outcome is discarded.
func (f *Flow) Reset() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempt++
	f.state = StateIdle
	f.result = nil
	f.errMsg = ""
	f.fileName = ""
	f.touched = f.o.clock()
	return f.snapshotLocked()
}

// Snapshot returns the current state.
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Flow) snapshotLocked() Snapshot {
	snap := Snapshot{State: f.state, Error: f.errMsg, FileName: f.fileName}
	if f.result != nil {
		r := *f.result
		snap.Analysis = &r
	}
	return snap
}

func (f *Flow) stale(cutoff time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state != StateAnalyzing && f.touched.Before(cutoff)
}

func (o *Orchestrator) process(ctx context.Context, sessionID string, up Upload) (string, Result, error) {
	if detected, mismatch := uploads.Detect(up.Data, up.MediaType); mismatch {
		telemetry.Warn("upload.type_mismatch", map[string]any{
			"session_id": sessionID,
			"file_name":  up.FileName,
			"declared":   up.MediaType,
			"detected":   detected,
		})
	}

	text, err := extract.FromBytes(ctx, up.Data, up.MediaType)
	if err != nil {
		return "", Result{}, err
	}
	o.archive(ctx, sessionID, up, text)
	if strings.TrimSpace(text) == "" {
		return "", Result{}, ErrNoText
	}

	actx := ctx
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}
	result, err := o.Analyzer.Analyze(actx, text)
	if err != nil {
		if actx != ctx && errors.Is(actx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return "", Result{}, fmt.Errorf("%w: %w", ErrAnalysisTimeout, err)
		}
		return "", Result{}, err
	}
	return text, result, nil
}

// archive stores the upload and its extracted text. Failures are logged only.
func (o *Orchestrator) archive(ctx context.Context, sessionID string, up Upload, text string) {
	if o.Archive == nil {
		return
	}
	key, size, mimeType, err := o.Archive.Save(ctx, sessionID, up.FileName, bytes.NewReader(up.Data))
	if err != nil {
		telemetry.Warn("archive.save_failed", map[string]any{"session_id": sessionID, "error": err.Error()})
		return
	}
	if _, err := o.Archive.SaveWithKey(ctx, object.TextKey(key), "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		telemetry.Warn("archive.save_text_failed", map[string]any{"session_id": sessionID, "key": key, "error": err.Error()})
		return
	}
	telemetry.Info("archive.saved", map[string]any{
		"session_id": sessionID,
		"key":        key,
		"size_bytes": size,
		"mime_type":  mimeType,
	})
}

func (o *Orchestrator) persist(ctx context.Context, sessionID, text string, result Result) {
	if o.Sessions == nil {
		return
	}
	if err := SaveAnalysis(ctx, o.Sessions, sessionID, result); err != nil {
		telemetry.Error("session.save_analysis_failed", map[string]any{"session_id": sessionID, "error": err.Error()})
	}
	if err := SaveResumeText(ctx, o.Sessions, sessionID, text); err != nil {
		telemetry.Error("session.save_text_failed", map[string]any{"session_id": sessionID, "error": err.Error()})
	}
}
