package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ower-flow/sms-be/internal/models"
	appErrors "github.com/ower-flow/sms-be/pkg/errors"
)

type mockTenantRepo struct {
	tenants map[string]*models.Tenant
	err     error
	calls   int
}

func (m *mockTenantRepo) FindByDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if tenant, ok := m.tenants[domain]; ok {
		cp := *tenant
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockTenantSchoolRepo struct {
	schools map[int64]*models.School
}

func (m *mockTenantSchoolRepo) FindByID(ctx context.Context, id int64) (*models.School, error) {
	if school, ok := m.schools[id]; ok {
		cp := *school
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockTenantCache struct {
	entries map[string][]byte
	sets    int
	deletes []string
}

func (m *mockTenantCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockTenantCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	m.entries[key] = raw
	m.sets++
	return nil
}

func (m *mockTenantCache) Delete(ctx context.Context, key string) error {
	delete(m.entries, key)
	m.deletes = append(m.deletes, key)
	return nil
}

func TestTenantServiceResolve(t *testing.T) {
	tenant := &models.Tenant{ID: 3, SchemaName: "northside", SchoolID: 7}
	school := &models.School{ID: 7, Name: "Northside High", UniqueID: "NH-001", Active: true}

	t.Run("resolves and caches", func(t *testing.T) {
		repo := &mockTenantRepo{tenants: map[string]*models.Tenant{"northside.example.com": tenant}}
		schools := &mockTenantSchoolRepo{schools: map[int64]*models.School{7: school}}
		cache := &mockTenantCache{}
		svc := NewTenantService(repo, schools, cache, time.Minute, nil, zap.NewNop())

		res := svc.Resolve(context.Background(), "Northside.Example.Com:8443")
		require.True(t, res.Resolved())
		assert.Equal(t, "northside.example.com", res.Host)
		assert.Equal(t, tenant.ID, res.Tenant.ID)
		assert.Equal(t, school.ID, res.School.ID)
		assert.Equal(t, 1, cache.sets)

		// Second lookup comes from cache.
		again := svc.Resolve(context.Background(), "northside.example.com")
		require.True(t, again.Resolved())
		assert.Equal(t, 1, repo.calls)
	})

	t.Run("unknown domain resolves empty without error", func(t *testing.T) {
		repo := &mockTenantRepo{}
		svc := NewTenantService(repo, &mockTenantSchoolRepo{}, nil, time.Minute, nil, zap.NewNop())

		res := svc.Resolve(context.Background(), "nowhere.example.com")
		assert.False(t, res.Resolved())
		assert.NoError(t, res.Err)
		assert.Nil(t, res.Tenant)
	})

	t.Run("empty host resolves empty", func(t *testing.T) {
		svc := NewTenantService(&mockTenantRepo{}, &mockTenantSchoolRepo{}, nil, time.Minute, nil, zap.NewNop())
		res := svc.Resolve(context.Background(), "")
		assert.False(t, res.Resolved())
		assert.Empty(t, res.Host)
	})

	t.Run("undecodable cache entry is evicted", func(t *testing.T) {
		repo := &mockTenantRepo{tenants: map[string]*models.Tenant{"northside.example.com": tenant}}
		schools := &mockTenantSchoolRepo{schools: map[int64]*models.School{7: school}}
		cache := &mockTenantCache{entries: map[string][]byte{
			"tenant:domain:northside.example.com": []byte("{not json"),
		}}
		svc := NewTenantService(repo, schools, cache, time.Minute, nil, zap.NewNop())

		res := svc.Resolve(context.Background(), "northside.example.com")
		require.True(t, res.Resolved())
		assert.Equal(t, 1, repo.calls)
		assert.Equal(t, []string{"tenant:domain:northside.example.com"}, cache.deletes)
	})

	t.Run("store failure is carried in Err", func(t *testing.T) {
		repo := &mockTenantRepo{err: errors.New("store down")}
		svc := NewTenantService(repo, &mockTenantSchoolRepo{}, nil, time.Minute, nil, zap.NewNop())

		res := svc.Resolve(context.Background(), "northside.example.com")
		assert.False(t, res.Resolved())
		assert.Error(t, res.Err)
	})
}

func TestNormalizeHost(t *testing.T) {
	assert.Equal(t, "northside.example.com", NormalizeHost(" Northside.Example.Com "))
	assert.Equal(t, "northside.example.com", NormalizeHost("northside.example.com:443"))
	assert.Equal(t, "localhost", NormalizeHost("LOCALHOST:8000"))
	assert.Equal(t, "", NormalizeHost("  "))
}
