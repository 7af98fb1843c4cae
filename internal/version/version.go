package version

// Version is the build version, overridden at link time with
// -ldflags "-X github.com/supplierlens/backend/internal/version.Version=..."
var Version = "1.0.0"

// Service is the name reported by health checks and the CLI
const Service = "supplierlens-backend"
