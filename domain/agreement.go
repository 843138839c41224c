package domain

const (
	AgreementStatusSuccess   = "success"
	AgreementRecordedMessage = "Agreement recorded"
)

type AgreementRecorded struct {
	Status  string `json:"status"`
	UserId  string `json:"user_id"`
	Message string `json:"message"`
}

type AgreementStatus struct {
	UserId string `json:"user_id"`
	Agreed bool   `json:"agreed"`
}
