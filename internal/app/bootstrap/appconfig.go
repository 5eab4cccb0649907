// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/intake/config"
)

// DefaultServiceName is reported by /health and shown on the landing page.
const DefaultServiceName = "JS-Flask Integration"

// AppKeys are the service's own configuration keys, loaded alongside the
// core keys (e.g. INTAKE_SERVICE_NAME or --service_name).
var AppKeys = []config.AppKey{
	{Name: "service_name", Default: DefaultServiceName, Desc: "Service name reported by /health"},
	{Name: "timestamp_location", Default: "", Desc: "IANA time zone for timestamps (empty = server local time)"},
}

// AppConfig holds service-specific configuration.
type AppConfig struct {
	ServiceName string
	Location    *time.Location
}

func appConfigFrom(values config.AppConfigValues) (AppConfig, error) {
	cfg := AppConfig{
		ServiceName: strings.TrimSpace(values.String("service_name")),
		Location:    time.Local,
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultServiceName
	}
	if name := strings.TrimSpace(values.String("timestamp_location")); name != "" {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return AppConfig{}, fmt.Errorf("timestamp_location: %w", err)
		}
		cfg.Location = loc
	}
	return cfg, nil
}
