package middleware

import (
	"errors"

	"github.com/grafana/pyroscope-go"

	"github.com/duynhne/contact-service/config"
)

var profiler *pyroscope.Profiler

// InitProfiling starts continuous profiling against the configured Pyroscope server.
// The application name comes from PROFILING config, falling back to Kubernetes detection.
func InitProfiling(cfg config.ProfilingConfig) error {
	if !cfg.Enabled {
		return errors.New("profiling is disabled (PROFILING_ENABLED=false)")
	}

	serviceName, namespace := detectServiceInfo()
	if cfg.ServiceName != "" {
		serviceName = cfg.ServiceName
	}

	var err error
	profiler, err = pyroscope.Start(pyroscope.Config{
		ApplicationName: serviceName,
		ServerAddress:   cfg.Endpoint,
		Tags: map[string]string{
			"service":   serviceName,
			"namespace": namespace,
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	return err
}

// StopProfiling stops Pyroscope profiling
func StopProfiling() {
	if profiler != nil {
		_ = profiler.Stop()
	}
}
