package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"haulpulse/internal/dataset"
	"haulpulse/internal/shared/testutil"
)

type mockDatasetInfoProvider struct {
	mock.Mock
}

func (m *mockDatasetInfoProvider) DatasetInfo() (dataset.Info, bool) {
	args := m.Called()
	return args.Get(0).(dataset.Info), args.Bool(1)
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name        string
		info        dataset.Info
		loaded      bool
		reportsDir  func(t *testing.T) string
		wantStatus  string
		wantDataset string
		wantReports string
	}{
		{
			name:        "loaded dataset and reports dir",
			info:        dataset.Info{ID: "abc", Records: 8},
			loaded:      true,
			reportsDir:  func(t *testing.T) string { return t.TempDir() },
			wantStatus:  StatusReady,
			wantDataset: StatusReady,
			wantReports: StatusReady,
		},
		{
			name:        "dataset not loaded",
			loaded:      false,
			reportsDir:  func(t *testing.T) string { return t.TempDir() },
			wantStatus:  StatusNotReady,
			wantDataset: StatusNotReady,
			wantReports: StatusReady,
		},
		{
			name:        "empty dataset",
			info:        dataset.Info{ID: "abc"},
			loaded:      true,
			reportsDir:  func(t *testing.T) string { return "" },
			wantStatus:  StatusNotReady,
			wantDataset: StatusNotReady,
			wantReports: StatusReady,
		},
		{
			name:        "missing reports dir",
			info:        dataset.Info{ID: "abc", Records: 1},
			loaded:      true,
			reportsDir:  func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing") },
			wantStatus:  StatusNotReady,
			wantDataset: StatusReady,
			wantReports: StatusNotReady,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			provider := new(mockDatasetInfoProvider)
			provider.On("DatasetInfo").Return(tt.info, tt.loaded)

			hs := NewHealthService("1.2.3", "", "", tt.reportsDir(t), provider, logger)
			got := hs.ReadinessCheck(context.Background())

			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantDataset, got.Services["dataset"].Status)
			assert.Equal(t, tt.wantReports, got.Services["reports"].Status)
			provider.AssertExpectations(t)
		})
	}
}

func TestHealthService_WithDashboardService(t *testing.T) {
	svc := newTestService(t, testutil.NewTestDataset(t), nil)
	hs := NewHealthService("1.0.0", "", "", "", svc, nil)

	got := hs.ReadinessCheck(context.Background())
	assert.Equal(t, StatusReady, got.Status)
	if assert.NotNil(t, got.Services["dataset"].Dataset) {
		assert.Equal(t, 8, got.Services["dataset"].Dataset.Records)
	}
}

func TestHealthService_Probes(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("1.2.3", "2026-01-02T03:04:05Z", "build-7", "", nil, logger)
	ctx := context.Background()

	assert.Equal(t, StatusOK, hs.HealthCheck(ctx).Status)

	live := hs.LivenessCheck(ctx)
	assert.Equal(t, StatusAlive, live.Status)
	assert.Contains(t, live.Runtime, "goroutines")

	ready := hs.ReadinessCheck(ctx)
	assert.Equal(t, StatusNotReady, ready.Status)

	v := hs.Version()
	assert.Equal(t, "1.2.3", v["version"])
	assert.Equal(t, "build-7", v["build_id"])
	assert.Equal(t, "HaulPulse", v["name"])
}
