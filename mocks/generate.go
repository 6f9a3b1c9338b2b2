package mocks

//go:generate mockgen -destination=./mock_history_provider.go -package=mocks github.com/rxtech-lab/argo-pulse/pkg/marketdata/provider HistoryProvider
//go:generate mockgen -destination=./mock_model.go -package=mocks github.com/rxtech-lab/argo-pulse/internal/insight Model
//go:generate mockgen -destination=./mock_insight_service.go -package=mocks github.com/rxtech-lab/argo-pulse/internal/server InsightService
