package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/media-share-backup-service/internal/domain"
	"github.com/haierkeys/media-share-backup-service/pkg/code"
	"github.com/haierkeys/media-share-backup-service/pkg/smbshare"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---- 内联 mock ----

type mockPlanRepo struct {
	domain.PlanRepository
	mu    sync.Mutex
	plans map[int64]*domain.Plan
	due   []*domain.Plan
}

func (m *mockPlanRepo) GetByID(ctx context.Context, id int64) (*domain.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plans[id], nil
}

func (m *mockPlanRepo) ListDue(ctx context.Context, now int64) ([]*domain.Plan, error) {
	return m.due, nil
}

func (m *mockPlanRepo) UpdateSchedule(ctx context.Context, id, nextRunTime, lastRunTime int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.plans[id]; ok {
		p.NextRunTime = nextRunTime
		p.LastRunTime = lastRunTime
	}
	return nil
}

type mockServerRepo struct {
	domain.ServerRepository
	servers map[int64]*domain.Server
}

func (m *mockServerRepo) GetByID(ctx context.Context, id int64) (*domain.Server, error) {
	return m.servers[id], nil
}

type mockRunRepo struct {
	domain.RunRepository
	mu     sync.Mutex
	nextID int64
	runs   map[int64]*domain.Run
}

func newMockRunRepo() *mockRunRepo {
	return &mockRunRepo{runs: map[int64]*domain.Run{}}
}

func (m *mockRunRepo) Create(ctx context.Context, run *domain.Run) (*domain.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	created := *run
	created.ID = m.nextID
	m.runs[created.ID] = &created
	copied := created
	return &copied, nil
}

func (m *mockRunRepo) GetByID(ctx context.Context, id int64) (*domain.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, nil
	}
	copied := *run
	return &copied, nil
}

func (m *mockRunRepo) Finalize(ctx context.Context, run *domain.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.runs[run.ID]
	if !ok || stored.Status != domain.RunStatusRunning {
		return nil
	}
	copied := *run
	m.runs[run.ID] = &copied
	return nil
}

func (m *mockRunRepo) ListByStatus(ctx context.Context, status domain.RunStatus) ([]*domain.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Run
	for _, run := range m.runs {
		if run.Status == status {
			copied := *run
			out = append(out, &copied)
		}
	}
	return out, nil
}

// waitStatus 轮询等待运行进入终态
func (m *mockRunRepo) waitStatus(t *testing.T, runID int64) *domain.Run {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		run, _ := m.GetByID(context.Background(), runID)
		if run != nil && run.Status.IsTerminal() {
			return run
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("run did not reach a terminal status")
	return nil
}

type mockRunLogRepo struct {
	domain.RunLogRepository
	mu   sync.Mutex
	logs []*domain.RunLog
}

func (m *mockRunLogRepo) Append(ctx context.Context, log *domain.RunLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *mockRunLogRepo) ListByRunID(ctx context.Context, runID int64) ([]*domain.RunLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.RunLog
	for _, l := range m.logs {
		if l.RunID == runID {
			out = append(out, l)
		}
	}
	return out, nil
}

type mockRecordRepo struct {
	domain.BackupRecordRepository
	mu       sync.Mutex
	existing map[string]struct{}
	created  []*domain.BackupRecord
}

func (m *mockRecordRepo) ExistingMediaIDs(ctx context.Context, planID int64, mediaIDs []string) (map[string]struct{}, error) {
	if m.existing == nil {
		return map[string]struct{}{}, nil
	}
	return m.existing, nil
}

func (m *mockRecordRepo) Create(ctx context.Context, record *domain.BackupRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, record)
	return nil
}

type mockSource struct {
	items       []domain.MediaItem
	listErr     error
	unsupported bool
}

func (m *mockSource) Supports(t domain.SourceType) bool { return !m.unsupported }

func (m *mockSource) List(ctx context.Context, source domain.Source) ([]domain.MediaItem, error) {
	return m.items, m.listErr
}

func (m *mockSource) Open(ctx context.Context, source domain.Source, item domain.MediaItem) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(bytes.Repeat([]byte("x"), int(item.SizeBytes)))), nil
}

type mockConn struct {
	mu        sync.Mutex
	uploaded  []string
	failPaths map[string]error
	uploadErr error
	blockCh   chan struct{} // 不为 nil 时每次上传先阻塞
}

func (m *mockConn) Upload(ctx context.Context, remotePath string, r io.Reader) (int64, error) {
	if m.blockCh != nil {
		select {
		case <-m.blockCh:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if m.uploadErr != nil {
		return 0, m.uploadErr
	}
	if err, ok := m.failPaths[remotePath]; ok {
		return 0, err
	}
	n, _ := io.Copy(io.Discard, r)
	m.mu.Lock()
	m.uploaded = append(m.uploaded, remotePath)
	m.mu.Unlock()
	return n, nil
}

func (m *mockConn) Close() error { return nil }

type mockDialer struct {
	conn    *mockConn
	dialErr error
}

func (m *mockDialer) Dial(ctx context.Context, target domain.ShareTarget) (domain.ShareConn, error) {
	if m.dialErr != nil {
		return nil, m.dialErr
	}
	return m.conn, nil
}

func (m *mockDialer) TestConnect(ctx context.Context, target domain.ShareTarget) (time.Duration, error) {
	return 0, m.dialErr
}

func (m *mockDialer) ListShares(ctx context.Context, target domain.ShareTarget) ([]string, error) {
	return nil, nil
}

type mockCredStore struct {
	cred *domain.Credential
}

func (m *mockCredStore) Save(alias string, cred *domain.Credential) error { return nil }
func (m *mockCredStore) Load(alias string) (*domain.Credential, error)    { return m.cred, nil }
func (m *mockCredStore) Delete(alias string) error                        { return nil }

// ---- 测试夹具 ----

type runFixture struct {
	svc     RunService
	planRepo *mockPlanRepo
	runRepo  *mockRunRepo
	logRepo  *mockRunLogRepo
	records  *mockRecordRepo
	source   *mockSource
	dialer   *mockDialer
}

func testPlan() *domain.Plan {
	return &domain.Plan{
		ID:        1,
		Name:      "camera roll",
		ServerID:  7,
		Source:    domain.Source{Type: domain.SourceTypeAlbum, AlbumID: "camera"},
		IsEnabled: true,
	}
}

func testItems(n int) []domain.MediaItem {
	var items []domain.MediaItem
	for i := 0; i < n; i++ {
		items = append(items, domain.MediaItem{
			ID:          fmt.Sprintf("media-%03d", i),
			DisplayName: fmt.Sprintf("photo-%03d.jpg", i),
			MimeType:    "image/jpeg",
			SizeBytes:   100,
			CapturedAt:  time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC),
			Album:       "camera",
		})
	}
	return items
}

func newRunFixture(items []domain.MediaItem) *runFixture {
	f := &runFixture{
		planRepo: &mockPlanRepo{plans: map[int64]*domain.Plan{1: testPlan()}},
		runRepo:  newMockRunRepo(),
		logRepo:  &mockRunLogRepo{},
		records:  &mockRecordRepo{},
		source:   &mockSource{items: items},
		dialer:   &mockDialer{conn: &mockConn{}},
	}
	serverRepo := &mockServerRepo{servers: map[int64]*domain.Server{
		7: {ID: 7, Host: "192.168.1.20", Port: 445, Share: "photos", BasePath: "backups", CredentialAlias: "a"},
	}}
	f.svc = NewRunService(
		f.planRepo, serverRepo, f.runRepo, f.logRepo, f.records,
		f.source, f.dialer,
		&mockCredStore{cred: &domain.Credential{User: "u", Password: "p"}},
		"test-device", nil, zap.NewNop(),
	)
	return f
}

// ---- 测试 ----

func TestExecuteAllUploadedDerivesSuccess(t *testing.T) {
	f := newRunFixture(testItems(3))

	run, err := f.svc.Execute(context.Background(), 1, domain.RunTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RunStatusRunning), run.Status)

	final := f.runRepo.waitStatus(t, run.ID)
	assert.Equal(t, domain.RunStatusSuccess, final.Status)
	assert.Equal(t, 3, final.TotalCount)
	assert.Equal(t, 3, final.UploadedCount)
	assert.Equal(t, 0, final.FailedCount)
	assert.Equal(t, int64(300), final.BytesUploaded)
	assert.Len(t, f.records.created, 3)
}

func TestExecuteSkipsAlreadyBackedUp(t *testing.T) {
	f := newRunFixture(testItems(3))
	f.records.existing = map[string]struct{}{"media-001": {}}

	run, err := f.svc.Execute(context.Background(), 1, domain.RunTriggerManual)
	require.NoError(t, err)

	final := f.runRepo.waitStatus(t, run.ID)
	assert.Equal(t, domain.RunStatusSuccess, final.Status)
	assert.Equal(t, 2, final.UploadedCount)
	assert.Equal(t, 1, final.SkippedCount)
	assert.Len(t, f.records.created, 2)
}

func TestExecutePartialWhenSomeItemsFail(t *testing.T) {
	f := newRunFixture(testItems(3))
	f.dialer.conn.failPaths = map[string]error{
		"backups/2024/06/05/1717588800_media-001.jpg": fmt.Errorf("connection reset by peer"),
	}

	run, err := f.svc.Execute(context.Background(), 1, domain.RunTriggerManual)
	require.NoError(t, err)

	final := f.runRepo.waitStatus(t, run.ID)
	assert.Equal(t, domain.RunStatusPartial, final.Status)
	assert.Equal(t, 2, final.UploadedCount)
	assert.Equal(t, 1, final.FailedCount)
	assert.Contains(t, final.ErrorSummary, "connection reset")
	assert.Equal(t, string(smbshare.FailureNetworkInterruption), final.ErrorCategory)

	logs, err := f.svc.Logs(context.Background(), run.ID)
	require.NoError(t, err)
	var errorLogs int
	for _, l := range logs {
		if l.Level == string(domain.RunLogLevelError) {
			errorLogs++
			assert.Equal(t, "media-001", l.MediaID)
		}
	}
	assert.Equal(t, 1, errorLogs)
}

func TestExecuteAllItemsFailDerivesFailed(t *testing.T) {
	f := newRunFixture(testItems(2))
	f.dialer.conn.uploadErr = fmt.Errorf("access denied")

	run, err := f.svc.Execute(context.Background(), 1, domain.RunTriggerManual)
	require.NoError(t, err)

	final := f.runRepo.waitStatus(t, run.ID)
	assert.Equal(t, domain.RunStatusFailed, final.Status)
	assert.Equal(t, 2, final.FailedCount)
	assert.Equal(t, string(smbshare.FailurePermissionDenied), final.ErrorCategory)
}

func TestExecuteDialFailureFailsRun(t *testing.T) {
	f := newRunFixture(testItems(2))
	f.dialer.dialErr = fmt.Errorf("smb: logon failure")

	run, err := f.svc.Execute(context.Background(), 1, domain.RunTriggerManual)
	require.NoError(t, err)

	final := f.runRepo.waitStatus(t, run.ID)
	assert.Equal(t, domain.RunStatusFailed, final.Status)
	assert.Equal(t, string(smbshare.FailureAuthentication), final.ErrorCategory)
	assert.Equal(t, 0, final.UploadedCount)
	assert.Equal(t, 1, final.FailedCount)
}

func TestScheduledExecuteUnsupportedSourceLeavesFailedRun(t *testing.T) {
	f := newRunFixture(testItems(1))
	f.source.unsupported = true

	_, err := f.svc.Execute(context.Background(), 1, domain.RunTriggerScheduled)
	assert.Equal(t, code.ErrorPlanSourceUnsupported, err)

	final := f.runRepo.waitStatus(t, 1)
	assert.Equal(t, domain.RunStatusFailed, final.Status)
	assert.Equal(t, 1, final.FailedCount)
	assert.Equal(t, 0, final.UploadedCount)
	assert.NotEmpty(t, final.ErrorSummary)
}

func TestManualExecuteUnsupportedSourceLeavesNoRun(t *testing.T) {
	f := newRunFixture(testItems(1))
	f.source.unsupported = true

	_, err := f.svc.Execute(context.Background(), 1, domain.RunTriggerManual)
	assert.Equal(t, code.ErrorPlanSourceUnsupported, err)

	run, err := f.runRepo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, run)
}

func TestRunLogTrailHasLifecycleEntries(t *testing.T) {
	f := newRunFixture(testItems(2))

	run, err := f.svc.Execute(context.Background(), 1, domain.RunTriggerManual)
	require.NoError(t, err)
	f.runRepo.waitStatus(t, run.ID)

	// 终态落库和收尾日志之间有一步，轮询到完整日志再断言
	var logs []*domain.RunLog
	require.Eventually(t, func() bool {
		logs, _ = f.logRepo.ListByRunID(context.Background(), run.ID)
		return len(logs) >= 3
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, "run started", logs[0].Message)
	assert.Contains(t, logs[1].Message, "scanned 2 media items")
	assert.Contains(t, logs[len(logs)-1].Message, "run finished")
}

func TestExecuteEmptySourceSucceeds(t *testing.T) {
	f := newRunFixture(nil)

	run, err := f.svc.Execute(context.Background(), 1, domain.RunTriggerManual)
	require.NoError(t, err)

	final := f.runRepo.waitStatus(t, run.ID)
	assert.Equal(t, domain.RunStatusSuccess, final.Status)
	assert.Equal(t, 0, final.TotalCount)
}

func TestExecutePlanNotFound(t *testing.T) {
	f := newRunFixture(nil)

	_, err := f.svc.Execute(context.Background(), 404, domain.RunTriggerManual)
	assert.Equal(t, code.ErrorPlanNotFound, err)
}

func TestExecuteRejectsConcurrentRunForSamePlan(t *testing.T) {
	f := newRunFixture(testItems(1))
	blockCh := make(chan struct{})
	f.dialer.conn.blockCh = blockCh

	run, err := f.svc.Execute(context.Background(), 1, domain.RunTriggerManual)
	require.NoError(t, err)

	_, err = f.svc.Execute(context.Background(), 1, domain.RunTriggerManual)
	assert.Equal(t, code.ErrorRunAlreadyRunning, err)

	close(blockCh)
	f.runRepo.waitStatus(t, run.ID)

	// 上一次运行结束后可以再次执行
	_, err = f.svc.Execute(context.Background(), 1, domain.RunTriggerManual)
	assert.NoError(t, err)
}

func TestCancelMarksRunCanceled(t *testing.T) {
	f := newRunFixture(testItems(3))
	f.dialer.conn.blockCh = make(chan struct{})

	run, err := f.svc.Execute(context.Background(), 1, domain.RunTriggerManual)
	require.NoError(t, err)

	// 等执行进入上传阶段再取消
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, f.svc.Cancel(context.Background(), run.ID))

	final := f.runRepo.waitStatus(t, run.ID)
	assert.Equal(t, domain.RunStatusCanceled, final.Status)
}

func TestCancelNotRunning(t *testing.T) {
	f := newRunFixture(testItems(1))

	run, err := f.svc.Execute(context.Background(), 1, domain.RunTriggerManual)
	require.NoError(t, err)
	f.runRepo.waitStatus(t, run.ID)

	err = f.svc.Cancel(context.Background(), run.ID)
	assert.Equal(t, code.ErrorRunNotRunning, err)

	err = f.svc.Cancel(context.Background(), 404)
	assert.Equal(t, code.ErrorRunNotFound, err)
}

func TestReconcileInterrupted(t *testing.T) {
	f := newRunFixture(nil)

	stale, err := f.runRepo.Create(context.Background(), &domain.Run{
		PlanID:    1,
		Status:    domain.RunStatusRunning,
		Trigger:   domain.RunTriggerScheduled,
		StartedAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.ReconcileInterrupted(context.Background()))

	got, err := f.runRepo.GetByID(context.Background(), stale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusInterrupted, got.Status)
}

func TestExecuteDuePlansDispatchesScheduledRuns(t *testing.T) {
	f := newRunFixture(testItems(1))
	f.planRepo.due = []*domain.Plan{f.planRepo.plans[1]}

	require.NoError(t, f.svc.ExecuteDuePlans(context.Background()))

	final := f.runRepo.waitStatus(t, 1)
	assert.Equal(t, domain.RunTriggerScheduled, final.Trigger)
	assert.Equal(t, domain.RunStatusSuccess, final.Status)
}

func TestDeriveRunStatus(t *testing.T) {
	cases := []struct {
		uploaded, skipped, failed int
		want                      domain.RunStatus
	}{
		{3, 0, 0, domain.RunStatusSuccess},
		{0, 3, 0, domain.RunStatusSuccess},
		{0, 0, 0, domain.RunStatusSuccess},
		{2, 0, 1, domain.RunStatusPartial},
		{0, 1, 2, domain.RunStatusPartial},
		{0, 0, 3, domain.RunStatusFailed},
	}
	for _, c := range cases {
		got := domain.DeriveRunStatus(c.uploaded, c.skipped, c.failed)
		assert.Equal(t, c.want, got,
			"uploaded=%d skipped=%d failed=%d", c.uploaded, c.skipped, c.failed)
	}
}
