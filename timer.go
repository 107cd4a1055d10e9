package dblog

import "time"

// Clock supplies wall time for record timestamps, file names and day detection
type Clock interface {
	Now() time.Time
}

// systemClock reads the local wall clock
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// dayKey identifies a calendar day in local time
func dayKey(t time.Time) int {
	y, m, d := t.Local().Date()
	return y*10000 + int(m)*100 + d
}

// flushInterval returns the writer's periodic wake interval
func (c *Config) flushInterval() time.Duration {
	ms := c.FlushIntervalMs
	if ms <= 0 {
		ms = defaultConfig.FlushIntervalMs
	}
	return time.Duration(ms) * time.Millisecond
}

// heartbeatInterval returns the heartbeat period, zero when heartbeats are disabled
func (c *Config) heartbeatInterval() time.Duration {
	if c.HeartbeatIntervalS <= 0 {
		return 0
	}
	return time.Duration(c.HeartbeatIntervalS) * time.Second
}

// waitTimer arms t for d, draining a stale fire left over from the previous cycle
func waitTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
