package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/manamurah/flotilla-watch/internal/common"
	"github.com/manamurah/flotilla-watch/internal/models"
	"github.com/manamurah/flotilla-watch/internal/report"
	"github.com/manamurah/flotilla-watch/internal/scrape"
)

type fakeAcquirer struct {
	entities []scrape.Entity
	errs     []error
	calls    int
}

func (f *fakeAcquirer) Acquire(ctx context.Context) ([]scrape.Entity, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.entities, nil
}

type fakeDeliverer struct {
	err   error
	calls int
	sent  *models.ReportEnvelope
}

func (f *fakeDeliverer) Send(ctx context.Context, env *models.ReportEnvelope) (*models.DeliveryResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	f.sent = env
	return &models.DeliveryResult{Success: true, MessageID: "test@flotilla-watch", Recipient: "ops@example.com"}, nil
}

type fakeStorage struct {
	latest     *models.ReportEnvelope
	history    []models.HistoryEntry
	saveErr    error
	historyErr error
}

func (f *fakeStorage) SaveLatest(ctx context.Context, env *models.ReportEnvelope) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.latest = env
	return nil
}

func (f *fakeStorage) Latest(ctx context.Context) (*models.ReportEnvelope, error) {
	return f.latest, nil
}

func (f *fakeStorage) AppendHistory(ctx context.Context, entry models.HistoryEntry) error {
	if f.historyErr != nil {
		return f.historyErr
	}
	f.history = append(f.history, entry)
	return nil
}

func (f *fakeStorage) History(ctx context.Context) ([]models.HistoryEntry, error) {
	return f.history, nil
}

const vesselEntity = `1.
Conscience
(Mediterranean Sea)
SAILING
LAST UPDATE
2025-10-02T01:43:00Z
SPEED
6.59 knots
COURSE
103
POSITION
37.2130, 20.9673`

const incidentEntity = `2.
Drone attack reported
LAST UPDATE
2025-10-02T01:50:00Z`

func noSleepPolicy(attempts int) common.RetryPolicy {
	p := common.NewRetryPolicy(attempts)
	p.Sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return p
}

func newTestWorkflow(acq *fakeAcquirer, store *fakeStorage, del *fakeDeliverer) *Workflow {
	logger := common.NewSilentLogger()
	builder := report.NewBuilder(common.NewDisplayZone("Asia/Kuala_Lumpur"), logger)
	return New(acq, builder, store, del, noSleepPolicy(3), noSleepPolicy(3), logger)
}

func TestRun_FullCycle(t *testing.T) {
	acq := &fakeAcquirer{entities: []scrape.Entity{
		{Index: 1, Text: vesselEntity},
		{Index: 2, Text: incidentEntity},
	}}
	store := &fakeStorage{}
	del := &fakeDeliverer{}

	result, err := newTestWorkflow(acq, store, del).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Vessels != 1 {
		t.Errorf("Vessels = %d, want 1 (incident filtered out)", result.Vessels)
	}
	if store.latest == nil {
		t.Fatal("latest report not persisted")
	}
	if len(store.history) != 1 {
		t.Fatalf("history entries = %d, want 1", len(store.history))
	}
	if store.history[0].TotalVessels != 1 {
		t.Errorf("history TotalVessels = %d, want 1", store.history[0].TotalVessels)
	}
	if del.sent != store.latest {
		t.Error("delivered envelope differs from persisted envelope")
	}
	if result.Delivery == nil || !result.Delivery.Success {
		t.Errorf("Delivery = %+v, want success", result.Delivery)
	}
}

func TestRun_AcquisitionRetriesThenSucceeds(t *testing.T) {
	acq := &fakeAcquirer{
		entities: []scrape.Entity{{Index: 1, Text: vesselEntity}},
		errs:     []error{errors.New("browser crashed"), errors.New("timeout")},
	}
	store := &fakeStorage{}
	del := &fakeDeliverer{}

	result, err := newTestWorkflow(acq, store, del).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if acq.calls != 3 {
		t.Errorf("acquire calls = %d, want 3", acq.calls)
	}
	if result.Vessels != 1 {
		t.Errorf("Vessels = %d, want 1", result.Vessels)
	}
}

func TestRun_AcquisitionExhaustionFailsCycle(t *testing.T) {
	boom := errors.New("page unreachable")
	acq := &fakeAcquirer{errs: []error{boom, boom, boom}}
	store := &fakeStorage{}
	del := &fakeDeliverer{}

	_, err := newTestWorkflow(acq, store, del).Run(context.Background())
	if err == nil {
		t.Fatal("expected error after retry exhaustion")
	}
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped %v", err, boom)
	}
	if store.latest != nil {
		t.Error("nothing should be persisted after acquisition failure")
	}
	if del.calls != 0 {
		t.Errorf("delivery calls = %d, want 0", del.calls)
	}
}

func TestRun_SaveFailureFailsCycle(t *testing.T) {
	acq := &fakeAcquirer{entities: []scrape.Entity{{Index: 1, Text: vesselEntity}}}
	store := &fakeStorage{saveErr: errors.New("disk full")}
	del := &fakeDeliverer{}

	_, err := newTestWorkflow(acq, store, del).Run(context.Background())
	if err == nil {
		t.Fatal("expected error when latest-report save fails")
	}
	if del.calls != 0 {
		t.Errorf("delivery calls = %d, want 0", del.calls)
	}
}

func TestRun_HistoryFailureIsNotFatal(t *testing.T) {
	acq := &fakeAcquirer{entities: []scrape.Entity{{Index: 1, Text: vesselEntity}}}
	store := &fakeStorage{historyErr: errors.New("history corrupted")}
	del := &fakeDeliverer{}

	result, err := newTestWorkflow(acq, store, del).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v (history append is best-effort)", err)
	}
	if del.calls != 1 {
		t.Errorf("delivery calls = %d, want 1", del.calls)
	}
	if result.Delivery == nil || !result.Delivery.Success {
		t.Error("expected successful delivery despite history failure")
	}
}

func TestRun_DeliveryFailureFailsCycle(t *testing.T) {
	acq := &fakeAcquirer{entities: []scrape.Entity{{Index: 1, Text: vesselEntity}}}
	store := &fakeStorage{}
	del := &fakeDeliverer{err: errors.New("smtp refused")}

	_, err := newTestWorkflow(acq, store, del).Run(context.Background())
	if err == nil {
		t.Fatal("expected error after delivery retries exhausted")
	}
	if del.calls != 3 {
		t.Errorf("delivery calls = %d, want 3", del.calls)
	}
	if store.latest == nil {
		t.Error("latest report should persist even when delivery fails")
	}
}

func TestRun_CustomClassifierKeepsEverything(t *testing.T) {
	acq := &fakeAcquirer{entities: []scrape.Entity{
		{Index: 1, Text: vesselEntity},
		{Index: 2, Text: incidentEntity},
	}}
	store := &fakeStorage{}
	del := &fakeDeliverer{}

	w := newTestWorkflow(acq, store, del)
	w.SetIncidentClassifier(func(*models.VesselRecord) bool { return false })

	result, err := w.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Vessels != 2 {
		t.Errorf("Vessels = %d, want 2 with filtering disabled", result.Vessels)
	}
}
