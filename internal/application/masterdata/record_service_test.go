package masterdata

import (
	"context"
	"fmt"
	"testing"

	"github.com/bizcore/backend/internal/domain/masterdata"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRecordRepository is a mock implementation of RecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) FindByID(ctx context.Context, scopeID, id uuid.UUID) (*masterdata.Record, error) {
	args := m.Called(ctx, scopeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*masterdata.Record), args.Error(1)
}

func (m *MockRecordRepository) FindByCode(ctx context.Context, scopeID uuid.UUID, kind masterdata.Kind, code string) (*masterdata.Record, error) {
	args := m.Called(ctx, scopeID, kind, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*masterdata.Record), args.Error(1)
}

func (m *MockRecordRepository) FindChildren(ctx context.Context, parentID uuid.UUID, kind masterdata.Kind) ([]masterdata.Record, error) {
	args := m.Called(ctx, parentID, kind)
	return args.Get(0).([]masterdata.Record), args.Error(1)
}

func (m *MockRecordRepository) Search(ctx context.Context, scopeID uuid.UUID, kind masterdata.Kind, q masterdata.Query) ([]masterdata.Record, error) {
	args := m.Called(ctx, scopeID, kind, q)
	return args.Get(0).([]masterdata.Record), args.Error(1)
}

func (m *MockRecordRepository) Count(ctx context.Context, scopeID uuid.UUID, kind masterdata.Kind, q masterdata.Query) (int64, error) {
	args := m.Called(ctx, scopeID, kind, q)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordRepository) CountLive(ctx context.Context, scopeID uuid.UUID, kind masterdata.Kind) (int64, error) {
	args := m.Called(ctx, scopeID, kind)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordRepository) CountEver(ctx context.Context, scopeID uuid.UUID, kind masterdata.Kind) (int64, error) {
	args := m.Called(ctx, scopeID, kind)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordRepository) ExistsCode(ctx context.Context, scopeID uuid.UUID, kind masterdata.Kind, code string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, scopeID, kind, code, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecordRepository) ClearExclusive(ctx context.Context, scopeID uuid.UUID, kind masterdata.Kind, excludeID *uuid.UUID) error {
	args := m.Called(ctx, scopeID, kind, excludeID)
	return args.Error(0)
}

func (m *MockRecordRepository) Save(ctx context.Context, record *masterdata.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) SoftDelete(ctx context.Context, scopeID, id uuid.UUID) error {
	args := m.Called(ctx, scopeID, id)
	return args.Error(0)
}

// MockScopeResolver is a mock implementation of ScopeResolver
type MockScopeResolver struct {
	mock.Mock
}

func (m *MockScopeResolver) Resolve(ctx context.Context, scope masterdata.Scope) error {
	args := m.Called(ctx, scope)
	return args.Error(0)
}

// fakeListCache is an in-memory ListCache that records invalidations
type fakeListCache struct {
	entries       map[string]*ListResult
	invalidations int
}

func newFakeListCache() *fakeListCache {
	return &fakeListCache{entries: make(map[string]*ListResult)}
}

func (c *fakeListCache) key(op string, scopeID uuid.UUID, kind masterdata.Kind, q masterdata.Query) string {
	return fmt.Sprintf("%s|%s|%s|%+v", op, scopeID, kind, q)
}

func (c *fakeListCache) Get(_ context.Context, op string, scopeID uuid.UUID, kind masterdata.Kind, q masterdata.Query) (*ListResult, bool) {
	result, ok := c.entries[c.key(op, scopeID, kind, q)]
	return result, ok
}

func (c *fakeListCache) Put(_ context.Context, op string, scopeID uuid.UUID, kind masterdata.Kind, q masterdata.Query, result *ListResult) {
	c.entries[c.key(op, scopeID, kind, q)] = result
}

func (c *fakeListCache) InvalidateAll(context.Context) error {
	c.entries = make(map[string]*ListResult)
	c.invalidations++
	return nil
}

// Test helper functions
func newTestCompanyID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func newTestService(repo *MockRecordRepository, cache ListCache) (*RecordService, *MockScopeResolver) {
	resolver := new(MockScopeResolver)
	resolver.On("Resolve", mock.Anything, mock.Anything).Return(nil)
	return NewRecordService(repo, resolver, NewNoOpTransactionScope(repo), cache, nil), resolver
}

func createTestRecord(t *testing.T, kind masterdata.Kind, scopeID uuid.UUID, code, name string) *masterdata.Record {
	desc, err := masterdata.Describe(kind)
	assert.NoError(t, err)
	record, err := masterdata.NewRecord(desc, scopeID, code, name)
	assert.NoError(t, err)
	return record
}

// Tests for RecordService.Create

func TestRecordService_Create_Success(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	req := CreateRecordRequest{Code: "SP-MAIN", Name: "Acme Supplies"}

	repo.On("CountLive", ctx, companyID, masterdata.KindSupplier).Return(int64(3), nil)
	repo.On("ExistsCode", ctx, companyID, masterdata.KindSupplier, "SP-MAIN", mock.Anything).Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*masterdata.Record")).Return(nil)

	result, err := service.Create(ctx, scope, masterdata.KindSupplier, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "SP-MAIN", result.Code)
	assert.Equal(t, "Acme Supplies", result.Name)
	assert.Equal(t, "active", result.Status)
	assert.False(t, result.IsExclusive)
	repo.AssertExpectations(t)
}

func TestRecordService_Create_AutoCode(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	req := CreateRecordRequest{Code: "auto", Name: "Acme Supplies"}

	repo.On("CountLive", ctx, companyID, masterdata.KindSupplier).Return(int64(0), nil)
	repo.On("CountEver", ctx, companyID, masterdata.KindSupplier).Return(int64(4), nil)
	repo.On("ExistsCode", ctx, companyID, masterdata.KindSupplier, "SP005", mock.Anything).Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*masterdata.Record")).Return(nil)

	result, err := service.Create(ctx, scope, masterdata.KindSupplier, req)

	assert.NoError(t, err)
	assert.Equal(t, "SP005", result.Code)
	repo.AssertExpectations(t)
}

func TestRecordService_Create_AutoCodeSkipsTakenCandidates(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	req := CreateRecordRequest{Code: "AUTO", Name: "North Branch"}

	repo.On("CountLive", ctx, companyID, masterdata.KindBranch).Return(int64(2), nil)
	repo.On("CountEver", ctx, companyID, masterdata.KindBranch).Return(int64(3), nil)
	repo.On("ExistsCode", ctx, companyID, masterdata.KindBranch, "BC004", mock.Anything).Return(true, nil)
	repo.On("ExistsCode", ctx, companyID, masterdata.KindBranch, "BC005", mock.Anything).Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*masterdata.Record")).Return(nil)

	result, err := service.Create(ctx, scope, masterdata.KindBranch, req)

	assert.NoError(t, err)
	assert.Equal(t, "BC005", result.Code)
	repo.AssertExpectations(t)
}

func TestRecordService_Create_FirstRecordForcedExclusive(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	req := CreateRecordRequest{Code: "BC-HQ", Name: "Headquarters"}

	repo.On("CountLive", ctx, companyID, masterdata.KindBranch).Return(int64(0), nil)
	repo.On("ExistsCode", ctx, companyID, masterdata.KindBranch, "BC-HQ", mock.Anything).Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*masterdata.Record")).Return(nil)

	result, err := service.Create(ctx, scope, masterdata.KindBranch, req)

	assert.NoError(t, err)
	assert.True(t, result.IsExclusive)
	repo.AssertNotCalled(t, "ClearExclusive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestRecordService_Create_FlaggedCreateClearsSiblings(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	flagged := true
	req := CreateRecordRequest{Code: "BC-NEW", Name: "New Branch", IsExclusive: &flagged}

	repo.On("CountLive", ctx, companyID, masterdata.KindBranch).Return(int64(2), nil)
	repo.On("ClearExclusive", ctx, companyID, masterdata.KindBranch, (*uuid.UUID)(nil)).Return(nil)
	repo.On("ExistsCode", ctx, companyID, masterdata.KindBranch, "BC-NEW", mock.Anything).Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*masterdata.Record")).Return(nil)

	result, err := service.Create(ctx, scope, masterdata.KindBranch, req)

	assert.NoError(t, err)
	assert.True(t, result.IsExclusive)
	repo.AssertExpectations(t)
}

func TestRecordService_Create_DuplicateCode(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	req := CreateRecordRequest{Code: "SP001", Name: "Acme Supplies"}

	repo.On("CountLive", ctx, companyID, masterdata.KindSupplier).Return(int64(1), nil)
	repo.On("ExistsCode", ctx, companyID, masterdata.KindSupplier, "SP001", mock.Anything).Return(true, nil)

	result, err := service.Create(ctx, scope, masterdata.KindSupplier, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_CODE", domainErr.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestRecordService_Create_ScopeKindMismatch(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	// Companies live in user scope, so a company scope must be rejected.
	scope := masterdata.CompanyScope(newTestCompanyID())
	req := CreateRecordRequest{Code: "CP001", Name: "My Company"}

	result, err := service.Create(ctx, scope, masterdata.KindCompany, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrInvalidScope)
}

func TestRecordService_Create_MissingRequiredFields(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	scope := masterdata.CompanyScope(newTestCompanyID())

	result, err := service.Create(ctx, scope, masterdata.KindSupplier, CreateRecordRequest{Name: "No Code"})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrValidationFailed)
}

func TestRecordService_Create_ChildrenOnChildlessKind(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	scope := masterdata.CompanyScope(newTestCompanyID())
	req := CreateRecordRequest{
		Code:     "SP001",
		Name:     "Acme Supplies",
		Children: []ChildRowRequest{{Name: "Box"}},
	}

	result, err := service.Create(ctx, scope, masterdata.KindSupplier, req)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrValidationFailed)
}

func TestRecordService_Create_WithChildRows(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	req := CreateRecordRequest{
		Code: "PR-COLA",
		Name: "Cola",
		Children: []ChildRowRequest{
			{Name: "Bottle"},
		},
	}

	repo.On("CountLive", ctx, companyID, masterdata.KindProduct).Return(int64(0), nil)
	repo.On("ExistsCode", ctx, companyID, masterdata.KindProduct, "PR-COLA", mock.Anything).Return(false, nil)
	// Empty child code falls back to auto allocation.
	repo.On("CountEver", ctx, companyID, masterdata.KindProductUnit).Return(int64(0), nil)
	repo.On("ExistsCode", ctx, companyID, masterdata.KindProductUnit, "PU001", mock.Anything).Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*masterdata.Record")).Return(nil).Times(2)

	result, err := service.Create(ctx, scope, masterdata.KindProduct, req)

	assert.NoError(t, err)
	assert.Len(t, result.Children, 1)
	assert.Equal(t, "PU001", result.Children[0].Code)
	assert.Equal(t, &result.ID, result.Children[0].ParentID)
	repo.AssertExpectations(t)
}

// Tests for RecordService.Update

func TestRecordService_Update_Success(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	record := createTestRecord(t, masterdata.KindSupplier, companyID, "SP001", "Acme Supplies")
	newName := "Acme Trading"

	repo.On("FindByID", ctx, companyID, record.ID).Return(record, nil)
	repo.On("Save", ctx, record).Return(nil)

	result, err := service.Update(ctx, scope, record.ID, UpdateRecordRequest{Name: &newName})

	assert.NoError(t, err)
	assert.Equal(t, "Acme Trading", result.Name)
	repo.AssertExpectations(t)
}

func TestRecordService_Update_NotFound(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	missingID := uuid.New()

	repo.On("FindByID", ctx, companyID, missingID).Return(nil, shared.ErrNotFound)

	result, err := service.Update(ctx, scope, missingID, UpdateRecordRequest{})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	repo.AssertExpectations(t)
}

func TestRecordService_Update_DirectFlagClearRejected(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	record := createTestRecord(t, masterdata.KindBranch, companyID, "BC001", "Headquarters")
	record.SetExclusive(true)
	cleared := false

	repo.On("FindByID", ctx, companyID, record.ID).Return(record, nil)

	result, err := service.Update(ctx, scope, record.ID, UpdateRecordRequest{IsExclusive: &cleared})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrExclusiveRequired)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestRecordService_Update_MoveFlag(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	record := createTestRecord(t, masterdata.KindBranch, companyID, "BC002", "North Branch")
	flagged := true

	repo.On("FindByID", ctx, companyID, record.ID).Return(record, nil)
	repo.On("ClearExclusive", ctx, companyID, masterdata.KindBranch, &record.ID).Return(nil)
	repo.On("Save", ctx, record).Return(nil)

	result, err := service.Update(ctx, scope, record.ID, UpdateRecordRequest{IsExclusive: &flagged})

	assert.NoError(t, err)
	assert.True(t, result.IsExclusive)
	repo.AssertExpectations(t)
}

func TestRecordService_Update_CodeChange(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	record := createTestRecord(t, masterdata.KindSupplier, companyID, "SP001", "Acme Supplies")
	newCode := "SP-MAIN"

	repo.On("FindByID", ctx, companyID, record.ID).Return(record, nil)
	repo.On("ExistsCode", ctx, companyID, masterdata.KindSupplier, "SP-MAIN", &record.ID).Return(false, nil)
	repo.On("Save", ctx, record).Return(nil)

	result, err := service.Update(ctx, scope, record.ID, UpdateRecordRequest{Code: &newCode})

	assert.NoError(t, err)
	assert.Equal(t, "SP-MAIN", result.Code)
	repo.AssertExpectations(t)
}

func TestRecordService_Update_ReconcilesChildRows(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	product := createTestRecord(t, masterdata.KindProduct, companyID, "PR001", "Cola")
	existing := createTestRecord(t, masterdata.KindProductUnit, companyID, "PU001", "Bottle")
	existing.SetParent(&product.ID)
	removed := createTestRecord(t, masterdata.KindProductUnit, companyID, "PU002", "Can")
	removed.SetParent(&product.ID)
	renamed := "Glass Bottle"

	repo.On("FindByID", ctx, companyID, product.ID).Return(product, nil)
	repo.On("FindByID", ctx, companyID, existing.ID).Return(existing, nil)
	repo.On("FindByID", ctx, companyID, removed.ID).Return(removed, nil)
	// New row gets an allocated code, the existing row is renamed in place.
	repo.On("CountEver", ctx, companyID, masterdata.KindProductUnit).Return(int64(2), nil)
	repo.On("ExistsCode", ctx, companyID, masterdata.KindProductUnit, "PU003", mock.Anything).Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*masterdata.Record")).Return(nil).Times(3)
	repo.On("SoftDelete", ctx, companyID, removed.ID).Return(nil)
	repo.On("FindChildren", ctx, product.ID, masterdata.KindProductUnit).Return([]masterdata.Record{*existing}, nil)

	result, err := service.Update(ctx, scope, product.ID, UpdateRecordRequest{
		Children: []ChildRowRequest{
			{Name: "Crate"},
			{ID: &existing.ID, Name: renamed},
		},
		RemoveChildIDs: []uuid.UUID{removed.ID},
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "Glass Bottle", existing.Name)
	repo.AssertExpectations(t)
}

func TestRecordService_Update_ChildOfDifferentParentRejected(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	product := createTestRecord(t, masterdata.KindProduct, companyID, "PR001", "Cola")
	otherParent := uuid.New()
	foreign := createTestRecord(t, masterdata.KindProductUnit, companyID, "PU009", "Bottle")
	foreign.SetParent(&otherParent)

	repo.On("FindByID", ctx, companyID, product.ID).Return(product, nil)
	repo.On("FindByID", ctx, companyID, foreign.ID).Return(foreign, nil)

	result, err := service.Update(ctx, scope, product.ID, UpdateRecordRequest{
		RemoveChildIDs: []uuid.UUID{foreign.ID},
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	repo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

// Tests for RecordService.Delete

func TestRecordService_Delete_Success(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	record := createTestRecord(t, masterdata.KindSupplier, companyID, "SP001", "Acme Supplies")

	repo.On("FindByID", ctx, companyID, record.ID).Return(record, nil)
	repo.On("SoftDelete", ctx, companyID, record.ID).Return(nil)

	ok, err := service.Delete(ctx, scope, record.ID)

	assert.NoError(t, err)
	assert.True(t, ok)
	repo.AssertExpectations(t)
}

func TestRecordService_Delete_FlaggedWithLiveSiblings(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	record := createTestRecord(t, masterdata.KindBranch, companyID, "BC001", "Headquarters")
	record.SetExclusive(true)

	repo.On("FindByID", ctx, companyID, record.ID).Return(record, nil)
	repo.On("CountLive", ctx, companyID, masterdata.KindBranch).Return(int64(3), nil)

	ok, err := service.Delete(ctx, scope, record.ID)

	assert.Error(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, err, shared.ErrExclusiveRequired)
	repo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestRecordService_Delete_LastFlaggedRecord(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	record := createTestRecord(t, masterdata.KindBranch, companyID, "BC001", "Headquarters")
	record.SetExclusive(true)

	repo.On("FindByID", ctx, companyID, record.ID).Return(record, nil)
	repo.On("CountLive", ctx, companyID, masterdata.KindBranch).Return(int64(1), nil)
	repo.On("SoftDelete", ctx, companyID, record.ID).Return(nil)

	ok, err := service.Delete(ctx, scope, record.ID)

	assert.NoError(t, err)
	assert.True(t, ok)
	repo.AssertExpectations(t)
}

func TestRecordService_Delete_CascadesToChildren(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	product := createTestRecord(t, masterdata.KindProduct, companyID, "PR001", "Cola")
	unit := createTestRecord(t, masterdata.KindProductUnit, companyID, "PU001", "Bottle")
	unit.SetParent(&product.ID)

	repo.On("FindByID", ctx, companyID, product.ID).Return(product, nil)
	repo.On("SoftDelete", ctx, companyID, product.ID).Return(nil)
	repo.On("FindChildren", ctx, product.ID, masterdata.KindProductUnit).Return([]masterdata.Record{*unit}, nil)
	repo.On("SoftDelete", ctx, companyID, unit.ID).Return(nil)

	ok, err := service.Delete(ctx, scope, product.ID)

	assert.NoError(t, err)
	assert.True(t, ok)
	repo.AssertExpectations(t)
}

// Tests for RecordService.List and the cache path

func TestRecordService_List_CacheHitSkipsRepository(t *testing.T) {
	repo := new(MockRecordRepository)
	cache := newFakeListCache()
	service, _ := newTestService(repo, cache)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	req := ListRecordsRequest{UseCache: true}
	cached := &ListResult{Total: 7, Page: 1, PageSize: 20, Paginated: true}
	cache.Put(ctx, ListOperation, companyID, masterdata.KindSupplier, req.ToQuery(), cached)

	result, err := service.List(ctx, scope, masterdata.KindSupplier, req)

	assert.NoError(t, err)
	assert.Equal(t, cached, result)
	repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Count", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordService_List_CacheMissPopulatesCache(t *testing.T) {
	repo := new(MockRecordRepository)
	cache := newFakeListCache()
	service, _ := newTestService(repo, cache)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	req := ListRecordsRequest{UseCache: true}
	record := createTestRecord(t, masterdata.KindSupplier, companyID, "SP001", "Acme Supplies")

	repo.On("Search", ctx, companyID, masterdata.KindSupplier, req.ToQuery()).Return([]masterdata.Record{*record}, nil)
	repo.On("Count", ctx, companyID, masterdata.KindSupplier, req.ToQuery()).Return(int64(1), nil)

	result, err := service.List(ctx, scope, masterdata.KindSupplier, req)

	assert.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, int64(1), result.Total)
	cachedResult, hit := cache.Get(ctx, ListOperation, companyID, masterdata.KindSupplier, req.ToQuery())
	assert.True(t, hit)
	assert.Equal(t, result, cachedResult)
	repo.AssertExpectations(t)
}

func TestRecordService_List_CacheDisabledByDefault(t *testing.T) {
	repo := new(MockRecordRepository)
	cache := newFakeListCache()
	service, _ := newTestService(repo, cache)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	req := ListRecordsRequest{}

	repo.On("Search", ctx, companyID, masterdata.KindSupplier, req.ToQuery()).Return([]masterdata.Record{}, nil)
	repo.On("Count", ctx, companyID, masterdata.KindSupplier, req.ToQuery()).Return(int64(0), nil)

	_, err := service.List(ctx, scope, masterdata.KindSupplier, req)

	assert.NoError(t, err)
	assert.Empty(t, cache.entries)
	repo.AssertExpectations(t)
}

func TestRecordService_List_Unpaginated(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	paginate := false
	req := ListRecordsRequest{Paginate: &paginate}
	record := createTestRecord(t, masterdata.KindSupplier, companyID, "SP001", "Acme Supplies")

	repo.On("Search", ctx, companyID, masterdata.KindSupplier, req.ToQuery()).Return([]masterdata.Record{*record}, nil)

	result, err := service.List(ctx, scope, masterdata.KindSupplier, req)

	assert.NoError(t, err)
	assert.False(t, result.Paginated)
	assert.Equal(t, int64(1), result.Total)
	repo.AssertNotCalled(t, "Count", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestRecordService_MutationsInvalidateCache(t *testing.T) {
	repo := new(MockRecordRepository)
	cache := newFakeListCache()
	service, _ := newTestService(repo, cache)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)
	cache.Put(ctx, ListOperation, companyID, masterdata.KindSupplier, masterdata.DefaultQuery(), &ListResult{})

	repo.On("CountLive", ctx, companyID, masterdata.KindSupplier).Return(int64(0), nil)
	repo.On("ExistsCode", ctx, companyID, masterdata.KindSupplier, "SP001", mock.Anything).Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*masterdata.Record")).Return(nil)

	_, err := service.Create(ctx, scope, masterdata.KindSupplier, CreateRecordRequest{Code: "SP001", Name: "Acme Supplies"})

	assert.NoError(t, err)
	assert.Equal(t, 1, cache.invalidations)
	assert.Empty(t, cache.entries)
}

func TestRecordService_FailedMutationKeepsCache(t *testing.T) {
	repo := new(MockRecordRepository)
	cache := newFakeListCache()
	service, _ := newTestService(repo, cache)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)

	repo.On("CountLive", ctx, companyID, masterdata.KindSupplier).Return(int64(0), nil)
	repo.On("ExistsCode", ctx, companyID, masterdata.KindSupplier, "SP001", mock.Anything).Return(true, nil)

	_, err := service.Create(ctx, scope, masterdata.KindSupplier, CreateRecordRequest{Code: "SP001", Name: "Acme Supplies"})

	assert.Error(t, err)
	assert.Zero(t, cache.invalidations)
}

// Tests for code helpers

func TestRecordService_GenerateUniqueCode(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)

	repo.On("CountEver", ctx, companyID, masterdata.KindBranch).Return(int64(5), nil)
	repo.On("ExistsCode", ctx, companyID, masterdata.KindBranch, "BC006", mock.Anything).Return(false, nil)

	code, err := service.GenerateUniqueCode(ctx, scope, masterdata.KindBranch)

	assert.NoError(t, err)
	assert.Equal(t, "BC006", code)
	repo.AssertExpectations(t)
}

func TestRecordService_IsUniqueCode(t *testing.T) {
	repo := new(MockRecordRepository)
	service, _ := newTestService(repo, nil)

	ctx := context.Background()
	companyID := newTestCompanyID()
	scope := masterdata.CompanyScope(companyID)

	repo.On("ExistsCode", ctx, companyID, masterdata.KindSupplier, "SP001", mock.Anything).Return(true, nil)

	unique, err := service.IsUniqueCode(ctx, scope, masterdata.KindSupplier, "SP001", nil)

	assert.NoError(t, err)
	assert.False(t, unique)
	repo.AssertExpectations(t)
}

func TestRecordService_ScopeResolutionFailure(t *testing.T) {
	repo := new(MockRecordRepository)
	resolver := new(MockScopeResolver)
	resolver.On("Resolve", mock.Anything, mock.Anything).Return(shared.ErrInvalidScope)
	service := NewRecordService(repo, resolver, NewNoOpTransactionScope(repo), nil, nil)

	ctx := context.Background()
	scope := masterdata.CompanyScope(uuid.New())

	_, err := service.List(ctx, scope, masterdata.KindSupplier, ListRecordsRequest{})

	assert.ErrorIs(t, err, shared.ErrInvalidScope)
	repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
