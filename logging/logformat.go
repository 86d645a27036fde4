package logging

type registrationPolicyLogEntry struct {
	OperationName string                             `json:"operationName"`
	Category      string                             `json:"category"`
	Properties    registrationPolicyLogEntryProperty `json:"properties"`
}

type registrationPolicyLogEntryProperty struct {
	ClientIP  string `json:"clientIp"`
	UserAgent string `json:"userAgent"`
	RuleID    string `json:"ruleId"`
	Message   string `json:"message"`
	Action    string `json:"action"`
}
