package app

import (
	"strings"

	"github.com/lumenlearn/lumen-backend/internal/platform/envutil"
)

type Config struct {
	JWTSecretKey string
	// Fallback award for paths that do not define completion points.
	PathCompletionPoints int
	AllowedOrigins       []string
	NotifierEnabled      bool
}

func LoadConfig() Config {
	var origins []string
	if raw := envutil.Str("ALLOWED_ORIGINS", ""); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	return Config{
		JWTSecretKey:         envutil.Str("JWT_SECRET_KEY", "defaultsecret"),
		PathCompletionPoints: envutil.Int("PATH_COMPLETION_POINTS", 500),
		AllowedOrigins:       origins,
		NotifierEnabled:      envutil.Bool("NOTIFIER_ENABLED", false),
	}
}
