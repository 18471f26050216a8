package email

const (
	subjectCredentialsFmt = "Benvingut a %s: les teves credencials d'accés"
	subjectPressupostFmt  = "Pressupost per a %s"
	subjectConversioFmt   = "Lead convertit: %s"
)
