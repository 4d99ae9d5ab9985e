// Package logger is a standardized event logging framework for the shell.
//
// Events are written as newline delimited JSON objects, one LogEntry per
// line, and can be summarized with a Report.
package logger
