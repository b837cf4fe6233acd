// Package buildinfo reports the zfs-tool build.
//
// Version, Commit and BuildTime are injected via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/zfs-tool/internal/infra/buildinfo.Version=v1.0.0" ./cmd/zfs-tool
//
// Values left unset fall back to the module build information embedded by
// the Go toolchain.
package buildinfo
