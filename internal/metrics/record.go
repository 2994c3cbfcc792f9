package metrics

import "time"

// Los Record* son no-op hasta que se llama Register.

func RecordSessionCreated() {
	if sessionsCreatedTotal != nil {
		sessionsCreatedTotal.Inc()
	}
}

// RecordSessionValidation: result es valid|missing|expired|corrupt|error.
func RecordSessionValidation(result string) {
	if sessionValidationsTotal != nil {
		sessionValidationsTotal.WithLabelValues(result).Inc()
	}
}

func RecordSessionExtended(ok bool) {
	if sessionsExtendedTotal == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "missing"
	}
	sessionsExtendedTotal.WithLabelValues(result).Inc()
}

// RecordSessionDeleted: reason es explicit|reaped.
func RecordSessionDeleted(reason string) {
	if sessionsDeletedTotal != nil {
		sessionsDeletedTotal.WithLabelValues(reason).Inc()
	}
}

// RecordOAuthExchange: result es ok|rejected|error.
func RecordOAuthExchange(provider, result string, d time.Duration) {
	if oauthExchangesTotal != nil {
		oauthExchangesTotal.WithLabelValues(provider, result).Inc()
	}
	if oauthExchangeDuration != nil {
		oauthExchangeDuration.WithLabelValues(provider).Observe(d.Seconds())
	}
}

func RecordRateLimitRejection(path string) {
	if rateLimitRejectionsTotal != nil {
		rateLimitRejectionsTotal.WithLabelValues(normalizePath(path)).Inc()
	}
}

// RecordLogin: result es ok|rejected|bad_request|bad_state|unknown_provider|error.
func RecordLogin(provider, result string) {
	if loginsTotal != nil {
		loginsTotal.WithLabelValues(provider, result).Inc()
	}
}
