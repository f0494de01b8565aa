package taskgate

// Version is the release of taskgate. Builds override it with
// -ldflags "-X github.com/aretw0/taskgate.Version=...".
var Version = "v0.1.0-dev"
