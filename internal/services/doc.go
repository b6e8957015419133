// Package services implements the business layer between the HTTP handlers
// and the dataset, views and forecast packages.
//
// # Services
//
//   - DashboardService: answers every dashboard view from the memoized tables,
//     and renders views as frames, exports and charts
//   - ForecastService: extends a country's history with the trained model
//   - HealthService: liveness, readiness and version reporting
//
// # Error Handling
//
// Services return package sentinels (ErrUnknownCountry, ErrYearOutOfRange,
// ErrTopNOutOfRange, ErrUnknownView) wrapped with context, plus the dataset
// and forecast errors unchanged. Handlers translate them into problem
// documents; services never write HTTP responses.
//
// # Testing
//
// Dependencies are small interfaces so tests can substitute testify mocks:
//
//	tables := new(MockTableSource)
//	tables.On("Tables", mock.Anything).Return(fixture, nil)
//	svc := NewDashboardService(tables, nil, settings, nil, logger)
package services
