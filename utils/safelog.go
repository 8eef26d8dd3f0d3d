// utils/safelog.go
// Logging helpers that mask student identifiers and amounts when running
// in production. Staff dues are personal financial data; raw values only
// ever appear in development logs.

package utils

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
)

var (
	// IsProduction switches masking on. Mirrors the gin release convention.
	IsProduction = os.Getenv("GIN_MODE") == "release" ||
		os.Getenv("ENVIRONMENT") == "production" ||
		os.Getenv("ENV") == "production"

	LogLevel = getLogLevel()
)

const (
	LogLevelDebug = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func getLogLevel() int {
	level := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	switch level {
	case "DEBUG":
		return LogLevelDebug
	case "WARN", "WARNING":
		return LogLevelWarn
	case "ERROR":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

var (
	// Student IDs look like R123456.
	studentIDRegex = regexp.MustCompile(`\b[A-Z]\d{5,8}\b`)

	// Receipt / due numbers like D1, D204, RCPT-2024-0031.
	receiptRegex = regexp.MustCompile(`\b(D\d{1,6}|RCPT-\d{4}-\d{1,6})\b`)

	// Amounts: bare decimals of two or more digits.
	amountRegex = regexp.MustCompile(`\b\d{2,}([.,]\d{1,2})?\b`)

	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
)

// MaskString masks sensitive values in a message when in production.
func MaskString(input string) string {
	if !IsProduction {
		return input
	}

	result := emailRegex.ReplaceAllString(input, "***@***.***")
	result = studentIDRegex.ReplaceAllString(result, "R******")
	result = receiptRegex.ReplaceAllString(result, "D***")
	result = amountRegex.ReplaceAllString(result, "***")
	return result
}

// MaskID keeps the first three characters of an identifier.
func MaskID(id string) string {
	if !IsProduction {
		return id
	}
	if len(id) <= 3 {
		return "***"
	}
	return id[:3] + "..."
}

func SafeLog(format string, args ...interface{}) {
	log.Print(MaskString(fmt.Sprintf(format, args...)))
}

func SafeDebug(format string, args ...interface{}) {
	if LogLevel > LogLevelDebug {
		return
	}
	log.Printf("[DEBUG] %s", MaskString(fmt.Sprintf(format, args...)))
}

func SafeInfo(format string, args ...interface{}) {
	if LogLevel > LogLevelInfo {
		return
	}
	log.Printf("[INFO] %s", MaskString(fmt.Sprintf(format, args...)))
}

func SafeWarn(format string, args ...interface{}) {
	if LogLevel > LogLevelWarn {
		return
	}
	log.Printf("[WARN] %s", MaskString(fmt.Sprintf(format, args...)))
}

func SafeError(format string, args ...interface{}) {
	log.Printf("[ERROR] %s", MaskString(fmt.Sprintf(format, args...)))
}

// LogFeeAction logs one fee operation without exposing the student.
func LogFeeAction(action, studentID, receiptNo string) {
	log.Printf("[Fees] %s - Student: %s Due: %s", action, MaskID(studentID), MaskID(receiptNo))
}

// LogAuthAction logs a staff authentication attempt.
func LogAuthAction(action, email string, success bool) {
	status := "SUCCESS"
	if !success {
		status = "FAILED"
	}
	if IsProduction {
		email = "***@***.***"
	}
	log.Printf("[Auth] %s - Email: %s Status: %s", action, email, status)
}

// LogUpstream logs one call to the student-fee API.
func LogUpstream(method, path string, statusCode int, duration string) {
	log.Printf("[Upstream] %s %s - Status: %d Duration: %s",
		method, MaskString(path), statusCode, duration)
}

// LogStartup logs boot information.
func LogStartup(appName, version, port string) {
	log.Printf("🚀 %s v%s starting...", appName, version)
	mode := "development"
	if IsProduction {
		mode = "production"
	}
	log.Printf("   Mode: %s", mode)
	log.Printf("   Port: %s", port)
	if IsProduction {
		log.Printf("   ⚠️  Production mode: student data will be masked in logs")
	}
}
