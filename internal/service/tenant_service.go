package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ower-flow/sms-be/internal/models"
	appErrors "github.com/ower-flow/sms-be/pkg/errors"
)

type tenantRepository interface {
	FindByDomain(ctx context.Context, domain string) (*models.Tenant, error)
}

type tenantSchoolRepository interface {
	FindByID(ctx context.Context, id int64) (*models.School, error)
}

type tenantCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type tenantObserver interface {
	RecordTenantLookup(source string)
}

// TenantService maps request hostnames to tenants and their schools. Lookups
// are pure reads; a hostname with no binding resolves to no tenant without
// error.
type TenantService struct {
	tenants  tenantRepository
	schools  tenantSchoolRepository
	cache    tenantCache
	cacheTTL time.Duration
	observer tenantObserver
	logger   *zap.Logger
}

// NewTenantService constructs a TenantService. cache and observer may be nil.
func NewTenantService(tenants tenantRepository, schools tenantSchoolRepository, cache tenantCache, cacheTTL time.Duration, observer tenantObserver, logger *zap.Logger) *TenantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TenantService{tenants: tenants, schools: schools, cache: cache, cacheTTL: cacheTTL, observer: observer, logger: logger}
}

func (s *TenantService) observe(source string) {
	if s.observer != nil {
		s.observer.RecordTenantLookup(source)
	}
}

type cachedResolution struct {
	Tenant *models.Tenant `json:"tenant"`
	School *models.School `json:"school"`
}

// Resolve looks up the tenant and school bound to the request host. The
// returned resolution always carries the normalized host; Err is set only on
// store failures, never on a merely unknown domain.
func (s *TenantService) Resolve(ctx context.Context, host string) *models.TenantResolution {
	host = NormalizeHost(host)
	res := &models.TenantResolution{Host: host}
	if host == "" {
		return res
	}

	cacheKey := fmt.Sprintf("tenant:domain:%s", host)
	if s.cache != nil {
		var cached cachedResolution
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.observe("cache")
			res.Tenant = cached.Tenant
			res.School = cached.School
			return res
		} else if !appErrors.Is(err, appErrors.ErrCacheMiss) {
			// evict entries that no longer decode so the next request repopulates
			s.logger.Warn("tenant cache lookup failed", zap.String("host", host), zap.Error(err))
			if delErr := s.cache.Delete(ctx, cacheKey); delErr != nil {
				s.logger.Warn("tenant cache evict failed", zap.String("host", host), zap.Error(delErr))
			}
		}
	}

	tenant, err := s.tenants.FindByDomain(ctx, host)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.observe("miss")
			return res
		}
		res.Err = err
		return res
	}
	s.observe("database")
	res.Tenant = tenant

	school, err := s.schools.FindByID(ctx, tenant.SchoolID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			res.Err = err
		}
		return res
	}
	res.School = school

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, cachedResolution{Tenant: tenant, School: school}, s.cacheTTL); err != nil {
			s.logger.Warn("tenant cache store failed", zap.String("host", host), zap.Error(err))
		}
	}

	return res
}

// NormalizeHost strips any port and lower-cases the hostname.
func NormalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(host)
}
