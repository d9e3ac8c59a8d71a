// Package logging configures the zap loggers of the accelbuf packages.
//
// Library packages (buffer, proxy) log through a package level logger that
// defaults to a no-op logger. InitLoggers replaces them with named console
// loggers sharing one level:
//
//	2025/04/01 12:00:00 | DEBUG | buffer | output buffer grown | {"from": 20, "to": 40, "written": 20}
package logging
