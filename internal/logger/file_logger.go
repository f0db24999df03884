package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger writes the trailing session to a per-ticket log file and
// optionally echoes to the console.
type Logger struct {
	symbol  string
	ticket  string
	logFile *os.File
	logger  *log.Logger
	echo    bool
	mu      sync.Mutex
	logDir  string
}

// LogLevel represents different types of log entries
type LogLevel string

const (
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARN"
	LogLevelError   LogLevel = "ERROR"
	LogLevelTrade   LogLevel = "TRADE"
	LogLevelStatus  LogLevel = "STATUS"
)

// NewLogger creates a session logger for one trailed position
func NewLogger(symbol, ticket string, echo bool) (*Logger, error) {
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02")
	filename := fmt.Sprintf("trail_%s_%s_%s.log", symbol, ticket, timestamp)
	logPath := filepath.Join(logDir, filename)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := &Logger{
		symbol:  symbol,
		ticket:  ticket,
		logFile: file,
		logger:  log.New(file, "", 0),
		echo:    echo,
		logDir:  logDir,
	}

	l.writeSessionHeader()

	return l, nil
}

// writeSessionHeader writes a session start header to the log
func (l *Logger) writeSessionHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := fmt.Sprintf(`
================================================================================
🛡️ TRAILING STOP SESSION STARTED
================================================================================
Symbol: %s | Ticket: %s
Started: %s
================================================================================
`, l.symbol, l.ticket, time.Now().Format("2006-01-02 15:04:05"))

	l.logger.Print(header)
}

// Log writes a formatted log entry with the specified level
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	logEntry := fmt.Sprintf("[%s] [%s] %s", timestamp, level, message)

	l.logger.Println(logEntry)
	if l.echo {
		fmt.Println(logEntry)
	}
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// Trade logs a stop-loss action
func (l *Logger) Trade(format string, args ...interface{}) {
	l.Log(LogLevelTrade, format, args...)
}

// Status logs periodic position status
func (l *Logger) Status(format string, args ...interface{}) {
	l.Log(LogLevelStatus, format, args...)
}

// LogStopMove logs a successful stop-loss modification in detail
func (l *Logger) LogStopMove(side string, oldStop, newStop, currentPrice, lockedProfit float64, reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")

	moveLog := fmt.Sprintf(`
[%s] [TRADE] ==================== STOP MOVED ====================
📍 %s %s | Ticket: %s
🔒 Stop: %.5f → %.5f
💰 Price: %.5f | Locked Profit: >= %.2f
📋 %s
=============================================================`,
		timestamp, l.symbol, side, l.ticket, oldStop, newStop, currentPrice, lockedProfit, reason)

	l.logger.Println(moveLog)
	if l.echo {
		fmt.Printf("[%s] %s %s | SL %.5f → %.5f | lock >= %.2f\n",
			time.Now().Format("15:04:05"), l.symbol, side, oldStop, newStop, lockedProfit)
	}
}

// LogSessionEnd writes the closing summary for the session
func (l *Logger) LogSessionEnd(cycles, stopsMoved int, finalStop float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	endLog := fmt.Sprintf(`
================================================================================
🏁 TRAILING STOP SESSION ENDED
Cycles: %d | Stops moved: %d | Final stop: %.5f
Ended: %s
================================================================================`,
		cycles, stopsMoved, finalStop, time.Now().Format("2006-01-02 15:04:05"))

	l.logger.Println(endLog)
}

// Close closes the underlying log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		return l.logFile.Close()
	}
	return nil
}
