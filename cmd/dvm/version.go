package main

// Version is dvm's own version, set at build time via
// -ldflags "-X main.Version=...".
var Version = "v0.1.0"
