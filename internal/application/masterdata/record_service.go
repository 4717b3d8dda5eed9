package masterdata

import (
	"context"
	"errors"

	"github.com/bizcore/backend/internal/domain/masterdata"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListOperation names the cached list read in cache keys
const ListOperation = "records.list"

// RecordService is the mutation and query entry point for master-data
// records. Every write runs inside one transaction ordered as: exclusivity
// flag clear, code resolution, record write, child reconciliation, commit.
// Every successful write invalidates the whole list-cache namespace.
type RecordService struct {
	records masterdata.RecordRepository
	scopes  masterdata.ScopeResolver
	tx      TransactionScope
	cache   ListCache
	logger  *zap.Logger
}

// NewRecordService creates a new RecordService
func NewRecordService(
	records masterdata.RecordRepository,
	scopes masterdata.ScopeResolver,
	tx TransactionScope,
	cache ListCache,
	logger *zap.Logger,
) *RecordService {
	if cache == nil {
		cache = NewNoopListCache()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordService{
		records: records,
		scopes:  scopes,
		tx:      tx,
		cache:   cache,
		logger:  logger,
	}
}

// Create creates a new record of the given kind within the scope.
// The first record of a kind with an exclusivity flag always becomes the
// scope's flagged record; later flagged creates clear their siblings first.
func (s *RecordService) Create(ctx context.Context, scope masterdata.Scope, kind masterdata.Kind, req CreateRecordRequest) (*RecordResponse, error) {
	desc, err := s.resolveScope(ctx, scope, kind)
	if err != nil {
		return nil, err
	}

	// Payloads are validated upstream; missing required keys still fail here.
	if req.Code == "" || req.Name == "" {
		return nil, shared.ErrValidationFailed
	}
	if len(req.Children) > 0 && desc.ChildKind == "" {
		return nil, shared.ErrValidationFailed
	}

	var resp *RecordResponse
	err = s.tx.Execute(ctx, func(repos TransactionalRepositories) error {
		repo := repos.Records()
		allocator := masterdata.NewCodeAllocator(repo)

		live, err := repo.CountLive(ctx, scope.ID, kind)
		if err != nil {
			return err
		}

		exclusive := desc.HasExclusive && (live == 0 || (req.IsExclusive != nil && *req.IsExclusive))
		if exclusive && live > 0 {
			if err := repo.ClearExclusive(ctx, scope.ID, kind, nil); err != nil {
				return err
			}
		}

		code, err := allocator.ResolveCode(ctx, scope.ID, desc, req.Code, nil)
		if err != nil {
			return err
		}

		record, err := masterdata.NewRecord(desc, scope.ID, code, req.Name)
		if err != nil {
			return err
		}
		if err := s.applyCreateFields(ctx, repo, desc, scope, record, req); err != nil {
			return err
		}
		if exclusive {
			record.SetExclusive(true)
		}

		if err := repo.Save(ctx, record); err != nil {
			return err
		}

		children := make([]RecordResponse, 0, len(req.Children))
		for _, childReq := range req.Children {
			child, err := s.createChild(ctx, repo, allocator, scope, desc.ChildKind, record.ID, childReq)
			if err != nil {
				return err
			}
			children = append(children, ToRecordResponse(child))
		}

		r := ToRecordResponse(record)
		r.Children = children
		resp = &r
		return nil
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	s.invalidate(ctx)

	return resp, nil
}

// Update applies a partial update to a record and reconciles its owned
// child rows: payload rows without an id are inserted, rows with an id are
// updated, and ids listed for removal are soft-deleted, all atomically.
func (s *RecordService) Update(ctx context.Context, scope masterdata.Scope, recordID uuid.UUID, req UpdateRecordRequest) (*RecordResponse, error) {
	if err := s.scopes.Resolve(ctx, scope); err != nil {
		return nil, err
	}

	var resp *RecordResponse
	err := s.tx.Execute(ctx, func(repos TransactionalRepositories) error {
		repo := repos.Records()
		allocator := masterdata.NewCodeAllocator(repo)

		record, err := repo.FindByID(ctx, scope.ID, recordID)
		if err != nil {
			return err
		}
		desc, err := masterdata.Describe(record.Kind)
		if err != nil {
			return err
		}
		if (len(req.Children) > 0 || len(req.RemoveChildIDs) > 0) && desc.ChildKind == "" {
			return shared.ErrValidationFailed
		}

		if req.IsExclusive != nil && desc.HasExclusive {
			if *req.IsExclusive && !record.IsExclusive {
				if err := repo.ClearExclusive(ctx, scope.ID, record.Kind, &record.ID); err != nil {
					return err
				}
				record.SetExclusive(true)
			} else if !*req.IsExclusive && record.IsExclusive {
				// The flag moves by flagging another record, never by
				// leaving the scope without one.
				return shared.ErrExclusiveRequired
			}
		}

		if req.Code != nil {
			code, err := allocator.ResolveCode(ctx, scope.ID, desc, *req.Code, &record.ID)
			if err != nil {
				return err
			}
			if code != record.Code {
				if err := record.UpdateCode(code); err != nil {
					return err
				}
			}
		}

		if err := s.applyUpdateFields(ctx, repo, desc, scope, record, req); err != nil {
			return err
		}

		if err := repo.Save(ctx, record); err != nil {
			return err
		}

		for _, childReq := range req.Children {
			if childReq.ID == nil {
				if _, err := s.createChild(ctx, repo, allocator, scope, desc.ChildKind, record.ID, childReq); err != nil {
					return err
				}
				continue
			}
			if err := s.updateChild(ctx, repo, allocator, scope, desc.ChildKind, record.ID, childReq); err != nil {
				return err
			}
		}
		for _, childID := range req.RemoveChildIDs {
			if err := s.removeChild(ctx, repo, scope, desc.ChildKind, record.ID, childID); err != nil {
				return err
			}
		}

		r := ToRecordResponse(record)
		if desc.ChildKind != "" {
			children, err := repo.FindChildren(ctx, record.ID, desc.ChildKind)
			if err != nil {
				return err
			}
			r.Children = ToRecordResponses(children)
		}
		resp = &r
		return nil
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	s.invalidate(ctx)

	return resp, nil
}

// Delete soft-deletes a record and its owned child rows. The scope's
// flagged record cannot be deleted while live siblings remain; callers must
// re-point the flag first.
func (s *RecordService) Delete(ctx context.Context, scope masterdata.Scope, recordID uuid.UUID) (bool, error) {
	if err := s.scopes.Resolve(ctx, scope); err != nil {
		return false, err
	}

	err := s.tx.Execute(ctx, func(repos TransactionalRepositories) error {
		repo := repos.Records()

		record, err := repo.FindByID(ctx, scope.ID, recordID)
		if err != nil {
			return err
		}
		desc, err := masterdata.Describe(record.Kind)
		if err != nil {
			return err
		}

		if desc.HasExclusive && record.IsExclusive {
			live, err := repo.CountLive(ctx, scope.ID, record.Kind)
			if err != nil {
				return err
			}
			if live > 1 {
				return shared.ErrExclusiveRequired
			}
		}

		if err := repo.SoftDelete(ctx, scope.ID, record.ID); err != nil {
			return err
		}

		if desc.ChildKind != "" {
			children, err := repo.FindChildren(ctx, record.ID, desc.ChildKind)
			if err != nil {
				return err
			}
			for i := range children {
				if err := repo.SoftDelete(ctx, scope.ID, children[i].ID); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return false, wrapTxError(err)
	}

	s.invalidate(ctx)

	return true, nil
}

// GetByID retrieves a record by id within the scope
func (s *RecordService) GetByID(ctx context.Context, scope masterdata.Scope, recordID uuid.UUID) (*RecordResponse, error) {
	if err := s.scopes.Resolve(ctx, scope); err != nil {
		return nil, err
	}

	record, err := s.records.FindByID(ctx, scope.ID, recordID)
	if err != nil {
		return nil, err
	}

	return s.toResponseWithChildren(ctx, record)
}

// GetByCode retrieves a record by code within the scope
func (s *RecordService) GetByCode(ctx context.Context, scope masterdata.Scope, kind masterdata.Kind, code string) (*RecordResponse, error) {
	if _, err := s.resolveScope(ctx, scope, kind); err != nil {
		return nil, err
	}

	record, err := s.records.FindByCode(ctx, scope.ID, kind, code)
	if err != nil {
		return nil, err
	}

	return s.toResponseWithChildren(ctx, record)
}

// List executes a filtered, ordered read over a kind. With UseCache set the
// cache is consulted first and populated on a miss; a hit never touches the
// database.
func (s *RecordService) List(ctx context.Context, scope masterdata.Scope, kind masterdata.Kind, req ListRecordsRequest) (*ListResult, error) {
	if _, err := s.resolveScope(ctx, scope, kind); err != nil {
		return nil, err
	}

	q := req.ToQuery()

	if req.UseCache {
		if result, ok := s.cache.Get(ctx, ListOperation, scope.ID, kind, q); ok {
			return result, nil
		}
	}

	records, err := s.records.Search(ctx, scope.ID, kind, q)
	if err != nil {
		return nil, err
	}

	result := &ListResult{
		Items:     ToRecordResponses(records),
		Paginated: q.Paginate,
	}
	if q.Paginate {
		total, err := s.records.Count(ctx, scope.ID, kind, q)
		if err != nil {
			return nil, err
		}
		page := shared.NewPaginated(result.Items, total, q.Page, q.PageSize)
		result.Total = page.Total
		result.Page = page.Page
		result.PageSize = page.PageSize
		result.TotalPages = page.TotalPages
	} else {
		result.Total = int64(len(result.Items))
	}

	if req.UseCache {
		s.cache.Put(ctx, ListOperation, scope.ID, kind, q, result)
	}

	return result, nil
}

// Activate makes a record active
func (s *RecordService) Activate(ctx context.Context, scope masterdata.Scope, recordID uuid.UUID) (*RecordResponse, error) {
	return s.changeStatus(ctx, scope, recordID, func(r *masterdata.Record) error { return r.Enable() })
}

// Deactivate makes a record inactive; the scope's flagged record is refused
func (s *RecordService) Deactivate(ctx context.Context, scope masterdata.Scope, recordID uuid.UUID) (*RecordResponse, error) {
	return s.changeStatus(ctx, scope, recordID, func(r *masterdata.Record) error { return r.Disable() })
}

// IsUniqueCode reports whether a literal code is free within the scope
func (s *RecordService) IsUniqueCode(ctx context.Context, scope masterdata.Scope, kind masterdata.Kind, code string, excludeID *uuid.UUID) (bool, error) {
	if _, err := s.resolveScope(ctx, scope, kind); err != nil {
		return false, err
	}
	return masterdata.NewCodeAllocator(s.records).IsUniqueCode(ctx, scope.ID, kind, code, excludeID)
}

// GenerateUniqueCode allocates the next free sequential code for the kind
func (s *RecordService) GenerateUniqueCode(ctx context.Context, scope masterdata.Scope, kind masterdata.Kind) (string, error) {
	desc, err := s.resolveScope(ctx, scope, kind)
	if err != nil {
		return "", err
	}
	return masterdata.NewCodeAllocator(s.records).GenerateUniqueCode(ctx, scope.ID, desc)
}

func (s *RecordService) changeStatus(ctx context.Context, scope masterdata.Scope, recordID uuid.UUID, change func(*masterdata.Record) error) (*RecordResponse, error) {
	if err := s.scopes.Resolve(ctx, scope); err != nil {
		return nil, err
	}

	var resp *RecordResponse
	err := s.tx.Execute(ctx, func(repos TransactionalRepositories) error {
		repo := repos.Records()

		record, err := repo.FindByID(ctx, scope.ID, recordID)
		if err != nil {
			return err
		}
		if err := change(record); err != nil {
			return err
		}
		if err := repo.Save(ctx, record); err != nil {
			return err
		}

		r := ToRecordResponse(record)
		resp = &r
		return nil
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	s.invalidate(ctx)

	return resp, nil
}

// resolveScope validates the kind, checks the scope kind matches the
// descriptor and verifies the scope id resolves
func (s *RecordService) resolveScope(ctx context.Context, scope masterdata.Scope, kind masterdata.Kind) (masterdata.Descriptor, error) {
	desc, err := masterdata.Describe(kind)
	if err != nil {
		return masterdata.Descriptor{}, err
	}
	if scope.Kind != desc.Scope {
		return masterdata.Descriptor{}, shared.ErrInvalidScope
	}
	if err := s.scopes.Resolve(ctx, scope); err != nil {
		return masterdata.Descriptor{}, err
	}
	return desc, nil
}

func (s *RecordService) applyCreateFields(ctx context.Context, repo masterdata.RecordRepository, desc masterdata.Descriptor, scope masterdata.Scope, record *masterdata.Record, req CreateRecordRequest) error {
	if req.ShortName != "" || req.Description != "" {
		if err := record.Update(req.Name, req.ShortName, req.Description); err != nil {
			return err
		}
	}
	if req.ContactName != "" || req.Phone != "" || req.Email != "" {
		if err := record.SetContact(req.ContactName, req.Phone, req.Email); err != nil {
			return err
		}
	}
	if req.Address != "" {
		if err := record.SetAddress(req.Address); err != nil {
			return err
		}
	}
	if req.ParentID != nil {
		if err := s.checkParent(ctx, repo, desc, scope, *req.ParentID); err != nil {
			return err
		}
		record.SetParent(req.ParentID)
	}
	if req.RefID != nil {
		record.SetRef(req.RefID)
	}
	if req.Factor != nil {
		if err := record.SetFactor(*req.Factor); err != nil {
			return err
		}
	}
	if req.Notes != "" {
		record.SetNotes(req.Notes)
	}
	if req.SortOrder != nil {
		record.SetSortOrder(*req.SortOrder)
	}
	if req.Attributes != "" {
		if err := record.SetAttributes(req.Attributes); err != nil {
			return err
		}
	}
	return nil
}

func (s *RecordService) applyUpdateFields(ctx context.Context, repo masterdata.RecordRepository, desc masterdata.Descriptor, scope masterdata.Scope, record *masterdata.Record, req UpdateRecordRequest) error {
	if req.Name != nil || req.ShortName != nil || req.Description != nil {
		name := record.Name
		shortName := record.ShortName
		description := record.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.ShortName != nil {
			shortName = *req.ShortName
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := record.Update(name, shortName, description); err != nil {
			return err
		}
	}
	if req.ContactName != nil || req.Phone != nil || req.Email != nil {
		contactName := record.ContactName
		phone := record.Phone
		email := record.Email
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Email != nil {
			email = *req.Email
		}
		if err := record.SetContact(contactName, phone, email); err != nil {
			return err
		}
	}
	if req.Address != nil {
		if err := record.SetAddress(*req.Address); err != nil {
			return err
		}
	}
	if req.ParentID != nil {
		if err := s.checkParent(ctx, repo, desc, scope, *req.ParentID); err != nil {
			return err
		}
		record.SetParent(req.ParentID)
	}
	if req.RefID != nil {
		record.SetRef(req.RefID)
	}
	if req.Factor != nil {
		if err := record.SetFactor(*req.Factor); err != nil {
			return err
		}
	}
	if req.Notes != nil {
		record.SetNotes(*req.Notes)
	}
	if req.SortOrder != nil {
		record.SetSortOrder(*req.SortOrder)
	}
	if req.Attributes != nil {
		if err := record.SetAttributes(*req.Attributes); err != nil {
			return err
		}
	}
	return nil
}

// checkParent verifies a referenced parent record exists in the same scope
// and has the kind the descriptor expects
func (s *RecordService) checkParent(ctx context.Context, repo masterdata.RecordRepository, desc masterdata.Descriptor, scope masterdata.Scope, parentID uuid.UUID) error {
	if desc.ParentKind == "" {
		return shared.ErrValidationFailed
	}
	parent, err := repo.FindByID(ctx, scope.ID, parentID)
	if err != nil {
		return err
	}
	if parent.Kind != desc.ParentKind {
		return shared.ErrValidationFailed
	}
	return nil
}

func (s *RecordService) createChild(ctx context.Context, repo masterdata.RecordRepository, allocator *masterdata.CodeAllocator, scope masterdata.Scope, childKind masterdata.Kind, parentID uuid.UUID, req ChildRowRequest) (*masterdata.Record, error) {
	childDesc, err := masterdata.Describe(childKind)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, shared.ErrValidationFailed
	}

	requested := req.Code
	if requested == "" {
		requested = masterdata.CodeAuto
	}
	code, err := allocator.ResolveCode(ctx, scope.ID, childDesc, requested, nil)
	if err != nil {
		return nil, err
	}

	child, err := masterdata.NewRecord(childDesc, scope.ID, code, req.Name)
	if err != nil {
		return nil, err
	}
	child.SetParent(&parentID)
	if req.RefID != nil {
		child.SetRef(req.RefID)
	}
	if req.Factor != nil {
		if err := child.SetFactor(*req.Factor); err != nil {
			return nil, err
		}
	}

	if err := repo.Save(ctx, child); err != nil {
		return nil, err
	}
	return child, nil
}

func (s *RecordService) updateChild(ctx context.Context, repo masterdata.RecordRepository, allocator *masterdata.CodeAllocator, scope masterdata.Scope, childKind masterdata.Kind, parentID uuid.UUID, req ChildRowRequest) error {
	child, err := s.findChild(ctx, repo, scope, childKind, parentID, *req.ID)
	if err != nil {
		return err
	}

	if req.Code != "" {
		code, err := allocator.ResolveCode(ctx, scope.ID, mustDescribe(childKind), req.Code, &child.ID)
		if err != nil {
			return err
		}
		if code != child.Code {
			if err := child.UpdateCode(code); err != nil {
				return err
			}
		}
	}
	if req.Name != "" && req.Name != child.Name {
		if err := child.Update(req.Name, child.ShortName, child.Description); err != nil {
			return err
		}
	}
	if req.RefID != nil {
		child.SetRef(req.RefID)
	}
	if req.Factor != nil {
		if err := child.SetFactor(*req.Factor); err != nil {
			return err
		}
	}

	return repo.Save(ctx, child)
}

func (s *RecordService) removeChild(ctx context.Context, repo masterdata.RecordRepository, scope masterdata.Scope, childKind masterdata.Kind, parentID, childID uuid.UUID) error {
	if _, err := s.findChild(ctx, repo, scope, childKind, parentID, childID); err != nil {
		return err
	}
	return repo.SoftDelete(ctx, scope.ID, childID)
}

// findChild loads a child row and verifies it belongs to the parent
func (s *RecordService) findChild(ctx context.Context, repo masterdata.RecordRepository, scope masterdata.Scope, childKind masterdata.Kind, parentID, childID uuid.UUID) (*masterdata.Record, error) {
	child, err := repo.FindByID(ctx, scope.ID, childID)
	if err != nil {
		return nil, err
	}
	if child.Kind != childKind || child.ParentID == nil || *child.ParentID != parentID {
		return nil, shared.ErrNotFound
	}
	return child, nil
}

func (s *RecordService) toResponseWithChildren(ctx context.Context, record *masterdata.Record) (*RecordResponse, error) {
	resp := ToRecordResponse(record)

	desc, err := masterdata.Describe(record.Kind)
	if err != nil {
		return nil, err
	}
	if desc.ChildKind != "" {
		children, err := s.records.FindChildren(ctx, record.ID, desc.ChildKind)
		if err != nil {
			return nil, err
		}
		resp.Children = ToRecordResponses(children)
	}

	return &resp, nil
}

// invalidate drops the whole list-cache namespace after a successful write.
// Coarse on purpose: a stale hit after any mutation is never acceptable.
func (s *RecordService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warn("list cache invalidation failed", zap.Error(err))
	}
}

// wrapTxError keeps domain errors intact and wraps persistence failures as
// TRANSACTION_FAILED; the transaction has already been rolled back.
func wrapTxError(err error) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return shared.NewTransactionError(err)
}

func mustDescribe(kind masterdata.Kind) masterdata.Descriptor {
	desc, err := masterdata.Describe(kind)
	if err != nil {
		panic(err)
	}
	return desc
}
