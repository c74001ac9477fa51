package config

import "testing"

func validWorkload() WorkloadConfig {
	return WorkloadConfig{
		ServiceTypes: []ServiceTypeConfig{
			{Fraction: 100, Resources: []ResourceConfig{
				{Kind: "cpu", Fraction: 100, Intensity: "high"},
			}},
		},
		Languages: []LanguageConfig{{Name: "python", Weight: 1}},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				App:      AppConfig{Name: "test-app", StartPort: 30100, Mode: ModeAutoPilot},
				Log:      LogConfig{Level: "info"},
				Topology: TopologyConfig{VertexCount: 8, EdgeCount: 13, ColorCount: 6},
				Workload: validWorkload(),
			},
			wantErr: false,
		},
		{
			name: "missing app name",
			cfg: Config{
				Log:      LogConfig{Level: "info"},
				Topology: TopologyConfig{VertexCount: 8, EdgeCount: 13, ColorCount: 6},
				Workload: validWorkload(),
			},
			wantErr: true,
		},
		{
			name: "invalid start port - too low",
			cfg: Config{
				App:      AppConfig{Name: "test", StartPort: 100},
				Topology: TopologyConfig{VertexCount: 8, EdgeCount: 13, ColorCount: 6},
				Workload: validWorkload(),
			},
			wantErr: true,
		},
		{
			name: "invalid start port - too high",
			cfg: Config{
				App:      AppConfig{Name: "test", StartPort: 49151},
				Topology: TopologyConfig{VertexCount: 8, EdgeCount: 13, ColorCount: 6},
				Workload: validWorkload(),
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			cfg: Config{
				App:      AppConfig{Name: "test", StartPort: 30100},
				Log:      LogConfig{Level: "invalid"},
				Topology: TopologyConfig{VertexCount: 8, EdgeCount: 13, ColorCount: 6},
				Workload: validWorkload(),
			},
			wantErr: true,
		},
		{
			name: "service type fractions do not sum to 100",
			cfg: Config{
				App:      AppConfig{Name: "test", StartPort: 30100},
				Topology: TopologyConfig{VertexCount: 8, EdgeCount: 13, ColorCount: 6},
				Workload: WorkloadConfig{
					ServiceTypes: []ServiceTypeConfig{
						{Fraction: 100, Resources: []ResourceConfig{
							{Kind: "cpu", Fraction: 60, Intensity: "low"},
						}},
					},
					Languages: []LanguageConfig{{Name: "python", Weight: 1}},
				},
			},
			wantErr: true,
		},
		{
			name: "unknown mode",
			cfg: Config{
				App:      AppConfig{Name: "test", StartPort: 30100, Mode: "bogus"},
				Topology: TopologyConfig{VertexCount: 8, EdgeCount: 13, ColorCount: 6},
				Workload: validWorkload(),
			},
			wantErr: true,
		},
		{
			name: "edge count exceeds max for vertex count",
			cfg: Config{
				App:      AppConfig{Name: "test", StartPort: 30100},
				Topology: TopologyConfig{VertexCount: 3, EdgeCount: 100, ColorCount: 2},
				Workload: validWorkload(),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
