package publicendpoint

import "net/http"

// Paths of the built-in public routes served by the web layer.
const (
	CheckAlivePath = "/checkalive"
	MetricsPath    = "/metrics"
)

var baseEndpoints = []Definition{
	{Method: AnyMethod, Pattern: "/api/v1/client/auth/**", Description: "Client authentication entry points"},
	{Method: AnyMethod, Pattern: "/api/v1/admin/auth/**", Description: "Admin authentication entry points"},
	{Method: http.MethodGet, Pattern: CheckAlivePath, Description: "Liveness probe"},
	{Method: http.MethodGet, Pattern: MetricsPath, Description: "Prometheus metrics"},
}

// RegisterDefaults registers the endpoints every deployment exposes without authentication.
func RegisterDefaults(r *Registry) error {
	for _, d := range baseEndpoints {
		if err := r.RegisterWithClientVariant(d.Method, d.Pattern, d.Description); err != nil {
			return err
		}
	}

	return nil
}
