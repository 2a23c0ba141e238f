package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"realty-dashboard/internal/listing"
	"realty-dashboard/internal/model"
	"realty-dashboard/internal/report"
	"realty-dashboard/internal/repository"
	"realty-dashboard/internal/stats"
	"realty-dashboard/pkg/database"
	"realty-dashboard/pkg/validator"
)

type published struct {
	event    string
	agencyID *uuid.UUID
}

type recorder struct {
	mu     sync.Mutex
	events []published
}

func (r *recorder) Publish(event string, agencyID *uuid.UUID, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{event: event, agencyID: agencyID})
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.event
	}
	return out
}

type fixture struct {
	db       *gorm.DB
	agencies repository.AgencyRepository
	agents   repository.AgentRepository
	txs      repository.TransactionRepository
	stats    repository.StatsRepository
	pub      *recorder
	log      *logrus.Logger
	agency   *model.Agency
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &fixture{
		db:       db,
		agencies: repository.NewAgencyRepo(db),
		agents:   repository.NewAgentRepo(db),
		txs:      repository.NewTransactionRepo(db),
		stats:    repository.NewStatsRepo(db),
		pub:      &recorder{},
		log:      log,
	}
	f.agency = f.newAgency(t, "Harbour Realty")
	return f
}

func (f *fixture) newAgency(t *testing.T, name string) *model.Agency {
	t.Helper()
	a := &model.Agency{Name: name, RLANumber: "RLA-" + name, IsActive: true}
	require.NoError(t, f.agencies.Create(a))
	return a
}

func (f *fixture) newAgent(t *testing.T, agencyID uuid.UUID, name string) *model.Agent {
	t.Helper()
	a := &model.Agent{AgencyID: agencyID, Name: name, Role: model.AgentRoleSalesAgent, IsActive: true}
	require.NoError(t, f.agents.Create(a))
	return a
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func (f *fixture) sale(t *testing.T, agencyID uuid.UUID, agent *model.Agent, price string, listed, sold *time.Time) *model.Transaction {
	t.Helper()
	tx := &model.Transaction{
		AgencyID:     agencyID,
		Address:      "1 Test St",
		PropertyType: model.PropertyHouse,
		Price:        price,
		Commission:   "10000",
		Status:       model.StatusSold,
		ListedDate:   listed,
		SaleDate:     sold,
	}
	if agent != nil {
		tx.AgentID = &agent.ID
	}
	require.NoError(t, f.txs.Create(tx))
	return tx
}

var fixedNow = time.Date(2025, time.June, 30, 12, 0, 0, 0, time.UTC)

func (f *fixture) statsService(strict bool) StatsService {
	policy, _ := stats.NewPolicy([]string{"sold", "settled"})
	return NewStatsService(f.db, f.txs, f.agents, f.agencies, f.stats, f.pub, f.log, StatsOptions{
		Period: "12m",
		Policy: policy,
		Strict: strict,
		Now:    func() time.Time { return fixedNow },
	})
}

func TestStatsService_CurrentBeforeRefreshIsZero(t *testing.T) {
	f := setup(t)
	svc := f.statsService(false)

	row, err := svc.Current(f.agency.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), row.TotalSold)
	assert.Equal(t, "0", row.TotalRevenue)
	assert.Equal(t, "0", row.AvgPrice)
}

func TestStatsService_Refresh(t *testing.T) {
	for _, strict := range []bool{false, true} {
		f := setup(t)
		svc := f.statsService(strict)

		f.sale(t, f.agency.ID, nil, "500000", day(2025, 2, 1), day(2025, 3, 1))
		f.sale(t, f.agency.ID, nil, "700000", day(2025, 4, 1), day(2025, 5, 1))
		f.sale(t, f.agency.ID, nil, "900000", day(2022, 1, 1), day(2023, 1, 1)) // outside 12m

		other := f.newAgency(t, "Other")
		f.sale(t, other.ID, nil, "100", nil, day(2025, 5, 1))

		row, err := svc.Refresh(context.Background(), f.agency.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), row.TotalSold)
		assert.Equal(t, "1200000", row.TotalRevenue)
		assert.Equal(t, "600000", row.AvgPrice)
		assert.Equal(t, int64(29), row.AvgDaysOnMarket)

		current, err := svc.Current(f.agency.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), current.TotalSold)
		assert.Equal(t, "1200000", current.TotalRevenue)

		// A second refresh overwrites the single row.
		_, err = svc.Refresh(context.Background(), f.agency.ID)
		require.NoError(t, err)
		var count int64
		require.NoError(t, f.db.Model(&model.SalesStats{}).Where("agency_id = ?", f.agency.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)

		assert.Contains(t, f.pub.names(), "stats_updated")
	}
}

func TestStatsService_RefreshUnresolvedPeriodStoresZeroes(t *testing.T) {
	f := setup(t)
	f.sale(t, f.agency.ID, nil, "500000", day(2025, 2, 1), day(2025, 3, 1))
	svc := NewStatsService(f.db, f.txs, f.agents, f.agencies, f.stats, f.pub, f.log, StatsOptions{
		Period: "fortnight",
		Now:    func() time.Time { return fixedNow },
	})

	row, err := svc.Refresh(context.Background(), f.agency.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), row.TotalSold)
	assert.Equal(t, "0", row.TotalRevenue)
	assert.Equal(t, "0", row.AvgPrice)

	current, err := svc.Current(f.agency.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), current.TotalSold)
	assert.Equal(t, "0", current.TotalRevenue)
	assert.Contains(t, f.pub.names(), "stats_updated")
}

// failingStats passes reads through and fails writes while *fail is set.
type failingStats struct {
	repository.StatsRepository
	fail *bool
}

func (r failingStats) Upsert(row *model.SalesStats) error {
	if *r.fail {
		return errors.New("disk full")
	}
	return r.StatsRepository.Upsert(row)
}

func (r failingStats) WithTx(tx *gorm.DB) repository.StatsRepository {
	return failingStats{StatsRepository: r.StatsRepository.WithTx(tx), fail: r.fail}
}

func TestStatsService_RefreshKeepsLastGoodSnapshotOnWriteFailure(t *testing.T) {
	for _, strict := range []bool{false, true} {
		f := setup(t)
		fail := false
		svc := NewStatsService(f.db, f.txs, f.agents, f.agencies, failingStats{f.stats, &fail}, f.pub, f.log, StatsOptions{
			Period: "12m",
			Strict: strict,
			Now:    func() time.Time { return fixedNow },
		})

		f.sale(t, f.agency.ID, nil, "500000", day(2025, 2, 1), day(2025, 3, 1))
		_, err := svc.Refresh(context.Background(), f.agency.ID)
		require.NoError(t, err)

		f.sale(t, f.agency.ID, nil, "700000", day(2025, 4, 1), day(2025, 5, 1))
		fail = true
		row, err := svc.Refresh(context.Background(), f.agency.ID)
		assert.Nil(t, row)
		assert.True(t, errors.Is(err, ErrStatsRefreshFailed), "strict=%v", strict)

		current, err := svc.Current(f.agency.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), current.TotalSold, "strict=%v", strict)
		assert.Equal(t, "500000", current.TotalRevenue)

		updates := 0
		for _, name := range f.pub.names() {
			if name == "stats_updated" {
				updates++
			}
		}
		assert.Equal(t, 1, updates, "strict=%v", strict)
	}
}

func TestStatsService_RefreshAllSkipsInactive(t *testing.T) {
	f := setup(t)
	svc := f.statsService(false)

	closed := f.newAgency(t, "Closed")
	closed.IsActive = false
	require.NoError(t, f.agencies.Update(closed))

	require.NoError(t, svc.RefreshAll(context.Background()))

	_, err := f.stats.Find(f.agency.ID)
	assert.NoError(t, err)
	_, err = f.stats.Find(closed.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStatsService_MonthlyAndAgents(t *testing.T) {
	f := setup(t)
	svc := f.statsService(false)

	jane := f.newAgent(t, f.agency.ID, "Jane")
	bob := f.newAgent(t, f.agency.ID, "Bob")
	f.sale(t, f.agency.ID, jane, "500000", nil, day(2025, 6, 1))
	f.sale(t, f.agency.ID, jane, "600000", nil, day(2025, 6, 10))
	f.sale(t, f.agency.ID, bob, "400000", nil, day(2025, 5, 2))

	points, err := svc.Monthly(f.agency.ID, "6m")
	require.NoError(t, err)
	require.NotEmpty(t, points)
	last := points[len(points)-1]
	assert.Equal(t, "2025-06", last.Month)
	assert.Equal(t, int64(2), last.Sold)

	perf, err := svc.AgentPerformance(f.agency.ID, "")
	require.NoError(t, err)
	require.Len(t, perf, 2)
	assert.Equal(t, "Jane", perf[0].Name)

	_, err = svc.Monthly(f.agency.ID, "2w")
	assert.Error(t, err)
}

func TestInWindow(t *testing.T) {
	txs := []model.Transaction{
		{SaleDate: day(2025, 6, 1)},
		{SaleDate: day(2020, 6, 1)},
	}
	f := setup(t)
	svc := f.statsService(false).(*statsService)
	window, err := svc.window("12m")
	require.NoError(t, err)
	assert.Len(t, InWindow(txs, window), 1)
}

func (f *fixture) transactionService() *transactionService {
	svc := NewTransactionService(f.txs, f.agents, f.pub).(*transactionService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func strPtr(s string) *string { return &s }

func TestTransactionService_Create(t *testing.T) {
	f := setup(t)
	svc := f.transactionService()
	agent := f.newAgent(t, f.agency.ID, "Jane")

	tx, err := svc.Create(f.agency.ID, &TransactionRequest{
		AgentID:         &agent.ID,
		Address:         " 12 Beach Rd ",
		Suburb:          "Glenelg",
		Postcode:        "5045",
		PropertyType:    "House",
		Price:           "850000",
		Status:          "sold",
		ListedDate:      strPtr("2025-04-01"),
		TransactionDate: strPtr("2025-05-01"),
	}, "tester")
	require.NoError(t, err)
	assert.Equal(t, "12 Beach Rd", tx.Address)
	assert.Equal(t, f.agency.ID, tx.AgencyID)
	assert.Equal(t, []string{"transaction_changed"}, f.pub.names())

	stored, err := svc.Get(f.agency.ID, tx.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Agent)
	assert.Equal(t, "Jane", stored.Agent.Name)
}

func TestTransactionService_CreateRejects(t *testing.T) {
	f := setup(t)
	svc := f.transactionService()
	other := f.newAgency(t, "Other")
	foreign := f.newAgent(t, other.ID, "Foreign")

	base := func() *TransactionRequest {
		return &TransactionRequest{Address: "1 A St", PropertyType: "House", Price: "100", Status: "listed"}
	}

	req := base()
	req.ListedDate = strPtr("2025-05-01")
	req.TransactionDate = strPtr("2025-04-01")
	_, err := svc.Create(f.agency.ID, req, "tester")
	assert.ErrorIs(t, err, ErrDatesOutOfOrder)

	req = base()
	req.ListedDate = strPtr("01/05/2025")
	_, err = svc.Create(f.agency.ID, req, "tester")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	req = base()
	req.AgentID = &foreign.ID
	_, err = svc.Create(f.agency.ID, req, "tester")
	assert.ErrorIs(t, err, ErrAgentNotInAgency)

	req = base()
	req.Price = "$100"
	_, err = svc.Create(f.agency.ID, req, "tester")
	assert.ErrorIs(t, err, validator.ErrValidation)

	req = base()
	req.Status = "archived"
	_, err = svc.Create(f.agency.ID, req, "tester")
	assert.ErrorIs(t, err, validator.ErrValidation)

	assert.Empty(t, f.pub.names())
}

func TestTransactionService_UpdateStatusStampsSaleDate(t *testing.T) {
	f := setup(t)
	svc := f.transactionService()

	tx, err := svc.Create(f.agency.ID, &TransactionRequest{
		Address: "1 A St", PropertyType: "House", Price: "100", Status: "listed",
		ListedDate: strPtr("2025-06-01"),
	}, "tester")
	require.NoError(t, err)
	assert.Nil(t, tx.SaleDate)

	updated, err := svc.UpdateStatus(f.agency.ID, tx.ID, &StatusRequest{Status: "sold"}, "tester")
	require.NoError(t, err)
	assert.Equal(t, model.StatusSold, updated.Status)
	require.NotNil(t, updated.SaleDate)
	assert.Equal(t, "2025-06-30", updated.SaleDate.Format("2006-01-02"))

	_, err = svc.UpdateStatus(f.agency.ID, tx.ID, &StatusRequest{Status: "settled", TransactionDate: strPtr("2025-05-01")}, "tester")
	assert.ErrorIs(t, err, ErrDatesOutOfOrder)

	_, err = svc.UpdateStatus(f.agency.ID, tx.ID, &StatusRequest{Status: "archived"}, "tester")
	assert.ErrorIs(t, err, validator.ErrValidation)
}

func TestTransactionService_TenantIsolation(t *testing.T) {
	f := setup(t)
	svc := f.transactionService()
	other := f.newAgency(t, "Other")

	tx := f.sale(t, f.agency.ID, nil, "100", nil, day(2025, 6, 1))

	_, err := svc.Get(other.ID, tx.ID)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	assert.ErrorIs(t, svc.Delete(other.ID, tx.ID, "tester"), ErrTransactionNotFound)

	page, err := svc.List(other.ID, listing.Query{})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)

	require.NoError(t, svc.Delete(f.agency.ID, tx.ID, "tester"))
	_, err = svc.Get(f.agency.ID, tx.ID)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestTransactionService_List(t *testing.T) {
	f := setup(t)
	svc := f.transactionService()

	f.sale(t, f.agency.ID, nil, "300000", nil, day(2025, 6, 1))
	f.sale(t, f.agency.ID, nil, "1200000", nil, day(2025, 6, 2))
	f.sale(t, f.agency.ID, nil, "900000", nil, day(2020, 6, 3))

	page, err := svc.List(f.agency.ID, listing.Query{
		Sort:    listing.SortState{Key: "price", Direction: listing.Desc},
		Filters: map[string]string{"dateRange": "12m"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)
	assert.Equal(t, "1200000", page.Data[0].Price)
	assert.Equal(t, "300000", page.Data[1].Price)
}

func TestAgentService(t *testing.T) {
	f := setup(t)
	svc := NewAgentService(f.agents, f.pub)
	other := f.newAgency(t, "Other")

	agent, err := svc.Create(f.agency.ID, &AgentRequest{Name: "Jane", Email: "jane@example.com", Role: "principal"}, "tester")
	require.NoError(t, err)
	assert.True(t, agent.IsActive)

	_, err = svc.Create(f.agency.ID, &AgentRequest{Name: "Bad", Email: "nope"}, "tester")
	assert.ErrorIs(t, err, validator.ErrValidation)

	_, err = svc.Get(other.ID, agent.ID)
	assert.ErrorIs(t, err, ErrAgentNotFound)

	page, err := svc.List(f.agency.ID, listing.Query{Search: "JANE"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	require.NoError(t, svc.Delete(f.agency.ID, agent.ID, "tester"))
	assert.ErrorIs(t, svc.Delete(f.agency.ID, agent.ID, "tester"), ErrAgentNotFound)
	assert.Contains(t, f.pub.names(), "agent_changed")
}

func TestAgencyService(t *testing.T) {
	f := setup(t)
	svc := NewAgencyService(f.agencies)

	_, err := svc.Create(&AgencyRequest{Name: "No Licence"}, "tester")
	assert.ErrorIs(t, err, validator.ErrValidation)

	a, err := svc.Create(&AgencyRequest{Name: "Coastal", RLANumber: "RLA-1"}, "tester")
	require.NoError(t, err)

	all, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, svc.Delete(a.ID, "tester"))
	_, err = svc.Get(a.ID)
	assert.ErrorIs(t, err, ErrAgencyNotFound)
}

func TestSettingService(t *testing.T) {
	f := setup(t)
	svc := NewSettingService(repository.NewSettingRepo(f.db), f.pub)

	_, err := svc.Put(f.agency.ID, &SettingRequest{Category: "branding", Key: "primary_color", Value: "#112233"}, "tester")
	require.NoError(t, err)
	_, err = svc.Put(f.agency.ID, &SettingRequest{Category: "branding", Key: "primary_color", Value: "#445566"}, "tester")
	require.NoError(t, err)

	got, err := svc.Get(f.agency.ID, "primary_color")
	require.NoError(t, err)
	assert.Equal(t, "#445566", got.Value)

	// One invalid entry writes nothing.
	_, err = svc.PutMany(f.agency.ID, []SettingRequest{
		{Category: "general", Key: "timezone", Value: "Australia/Adelaide"},
		{Category: "weird", Key: "x"},
	}, "tester")
	assert.ErrorIs(t, err, validator.ErrValidation)
	_, err = svc.Get(f.agency.ID, "timezone")
	assert.ErrorIs(t, err, ErrSettingNotFound)

	stored, err := svc.PutMany(f.agency.ID, []SettingRequest{
		{Category: "general", Key: "timezone", Value: "Australia/Adelaide"},
		{Category: "tv_view", Key: "rotate_seconds", Value: "30"},
	}, "tester")
	require.NoError(t, err)
	assert.Len(t, stored, 3)

	branding, err := svc.List(f.agency.ID, "branding")
	require.NoError(t, err)
	assert.Len(t, branding, 1)

	_, err = svc.List(f.agency.ID, "weird")
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Contains(t, f.pub.names(), "settings_changed")
}

func TestDashboardService_Overview(t *testing.T) {
	f := setup(t)
	svc := NewDashboardService(f.txs, f.statsService(false))

	for i := 0; i < 7; i++ {
		f.sale(t, f.agency.ID, nil, "100", nil, day(2025, 6, 1))
	}

	overview, err := svc.Overview(f.agency.ID, 5)
	require.NoError(t, err)
	assert.Len(t, overview.Recent, 5)
	assert.Equal(t, int64(7), overview.StatusCounts[model.StatusSold])
	assert.Equal(t, int64(0), overview.Stats.TotalSold)
}

type stubRenderer struct {
	out []byte
	err error
	got []byte
}

func (s *stubRenderer) Render(ctx context.Context, html []byte) ([]byte, error) {
	s.got = html
	return s.out, s.err
}

func (f *fixture) reportService(r report.Renderer) ReportService {
	policy, _ := stats.NewPolicy([]string{"sold"})
	return NewReportService(f.agencies, f.agents, f.txs, policy, r, f.log, ReportOptions{
		MaxWidgets:   10,
		TopLimit:     5,
		FetchTimeout: time.Second,
		Now:          func() time.Time { return fixedNow },
	})
}

func sampleReport() *report.Configuration {
	return &report.Configuration{
		Title:  "Quarterly",
		Period: "12m",
		Widgets: report.WidgetList{
			report.NewWidget("sold", "total_sold"),
			report.NewWidget("revenue", "total_revenue"),
			report.NewWidget("top", "top_transactions_table"),
		},
	}
}

func TestReportService_Compose(t *testing.T) {
	f := setup(t)
	f.sale(t, f.agency.ID, nil, "500000", nil, day(2025, 3, 1))
	f.sale(t, f.agency.ID, nil, "700000", nil, day(2025, 5, 1))
	svc := f.reportService(&stubRenderer{})

	doc, err := svc.Compose(context.Background(), f.agency.ID, sampleReport())
	require.NoError(t, err)
	assert.Equal(t, "Harbour Realty", doc.AgencyName)
	assert.Equal(t, "Last 12 months", doc.PeriodLabel)
	require.Len(t, doc.Rows, 2)

	sold := doc.Rows[0].Cells[0].Content
	require.Equal(t, report.StateReady, sold.State)
	assert.Equal(t, "2", sold.Data.(report.StatValue).Value)
	revenue := doc.Rows[0].Cells[1].Content
	assert.Equal(t, "$1,200,000", revenue.Data.(report.StatValue).Value)
	assert.Equal(t, report.StateReady, doc.Rows[1].Cells[0].Content.State)
}

func TestReportService_ComposeRejects(t *testing.T) {
	f := setup(t)
	svc := f.reportService(&stubRenderer{})

	empty := sampleReport()
	empty.Widgets = nil
	_, err := svc.Compose(context.Background(), f.agency.ID, empty)
	assert.ErrorIs(t, err, ErrInvalidReport)

	_, err = svc.Compose(context.Background(), uuid.New(), sampleReport())
	assert.ErrorIs(t, err, ErrAgencyNotFound)

	other := f.newAgency(t, "Other")
	foreign := f.newAgent(t, other.ID, "Foreign")
	cfg := sampleReport()
	cfg.AgentID = &foreign.ID
	_, err = svc.Compose(context.Background(), f.agency.ID, cfg)
	assert.ErrorIs(t, err, ErrAgentNotInAgency)
}

func TestReportService_Export(t *testing.T) {
	f := setup(t)
	r := &stubRenderer{out: []byte("%PDF-1.7")}
	svc := f.reportService(r)

	pdf, err := svc.Export(context.Background(), f.agency.ID, sampleReport())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(pdf))
	assert.Contains(t, string(r.got), "Quarterly")

	r.err = errors.New("chrome crashed")
	r.out = []byte("partial")
	pdf, err = svc.Export(context.Background(), f.agency.ID, sampleReport())
	assert.ErrorIs(t, err, report.ErrExportFailed)
	assert.Nil(t, pdf)
}

func seedAccounts(t *testing.T, f *fixture) (repository.UserRepository, repository.RoleRepository) {
	t.Helper()
	users := repository.NewUserRepo(f.db)
	roles := repository.NewRoleRepo(f.db)
	seeder := &Seeder{
		Privileges: repository.NewPrivilegeRepo(f.db),
		Roles:      roles,
		Users:      users,
		Log:        f.log,
	}
	require.NoError(t, seeder.Seed("root@example.com", "secret123"))
	return users, roles
}

func TestSeeder_Idempotent(t *testing.T) {
	f := setup(t)
	users, _ := seedAccounts(t, f)
	seedAccounts(t, f)

	all, err := users.FindAll(nil)
	require.NoError(t, err)
	require.Len(t, all, 1)

	admin, err := users.FindByEmail("root@example.com")
	require.NoError(t, err)
	assert.True(t, admin.CheckPassword("secret123"))
	assert.True(t, admin.HasPrivilege(model.PrivAgencySwitch))
	assert.Nil(t, admin.AgencyID)
}

func TestUserService_Tenancy(t *testing.T) {
	f := setup(t)
	users, roles := seedAccounts(t, f)
	svc := NewUserService(users, repository.NewPrivilegeRepo(f.db), roles)
	other := f.newAgency(t, "Other")

	adminRole, err := roles.FindByCode(model.RoleAgencyAdmin)
	require.NoError(t, err)
	platformRole, err := roles.FindByCode(model.RolePlatformAdmin)
	require.NoError(t, err)

	// An agency caller always creates inside its own agency, and the
	// platform role's agency:* privileges are stripped.
	u, err := svc.CreateUser(&f.agency.ID, &CreateUserRequest{
		Email: "ops@harbour.test", Password: "secret123", FullName: "Ops",
		RoleID: platformRole.ID, AgencyID: &other.ID,
	}, "tester")
	require.NoError(t, err)
	require.NotNil(t, u.AgencyID)
	assert.Equal(t, f.agency.ID, *u.AgencyID)
	assert.False(t, u.HasPrivilege(model.PrivAgencySwitch))

	_, err = svc.CreateUser(&f.agency.ID, &CreateUserRequest{
		Email: "ops@harbour.test", Password: "secret123", FullName: "Dup", RoleID: adminRole.ID,
	}, "tester")
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = svc.GetUserByID(&other.ID, u.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, svc.DeleteUser(&other.ID, u.ID, "tester"), ErrUserNotFound)

	_, err = svc.UpdateUserPrivileges(&f.agency.ID, u.ID, []string{model.PrivAgencyManage}, "tester")
	assert.ErrorIs(t, err, ErrPlatformPrivilege)

	mine, err := svc.GetAllUsers(&f.agency.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	everyone, err := svc.GetAllUsers(nil)
	require.NoError(t, err)
	assert.Len(t, everyone, 2)
}

func TestAuthService_LoginAndValidate(t *testing.T) {
	f := setup(t)
	users, _ := seedAccounts(t, f)
	svc := NewAuthService(users, f.pub)

	_, err := svc.Login("root@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	first, err := svc.Login("root@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, first.Token)
	assert.Contains(t, first.Privileges, model.PrivAgencyManage)

	_, err = svc.ValidateToken(first.Token)
	require.NoError(t, err)

	// Logging in again replaces the first session.
	second, err := svc.Login("root@example.com", "secret123")
	require.NoError(t, err)
	_, err = svc.ValidateToken(first.Token)
	assert.ErrorIs(t, err, ErrSessionReplaced)

	require.NoError(t, svc.ResetPassword("root@example.com", "secret123", "newsecret"))
	_, err = svc.ValidateToken(second.Token)
	assert.ErrorIs(t, err, ErrSessionReplaced)

	require.NoError(t, svc.Heartbeat(first.User.ID, nil))
	assert.Contains(t, f.pub.names(), "user_status_update")
}
