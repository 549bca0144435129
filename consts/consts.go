package consts

// Version is the app version, overridden with ldflags on release builds
var Version = "dev"
