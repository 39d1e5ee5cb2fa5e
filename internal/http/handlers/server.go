package handlers

import (
	"github.com/rogerio-castellano/pos-manager/internal/auth"
	"github.com/rogerio-castellano/pos-manager/internal/http/ban"
	repo "github.com/rogerio-castellano/pos-manager/internal/repo"
	"github.com/rogerio-castellano/pos-manager/internal/sales"
)

var (
	productRepo  repo.ProductRepository
	metricsRepo  repo.MetricsRepository
	authService  *auth.Service
	salesService *sales.Service
	banTracker   *ban.Tracker
)

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

func SetAuthService(s *auth.Service) {
	authService = s
}

func SetSalesService(s *sales.Service) {
	salesService = s
}

// SetBanTracker enables login lockout. A nil tracker disables it.
func SetBanTracker(t *ban.Tracker) {
	banTracker = t
}
