package domain

// LicenseType is the closed set of product license kinds
type LicenseType string

const (
	LicensePerpetual LicenseType = "perpetua"
	LicenseAnnual    LicenseType = "anual"
	LicenseMonthly   LicenseType = "mensual"
	LicenseTrial     LicenseType = "trial"
)

// LicenseTypes keeps the declaration order used for choice listings
var LicenseTypes = []LicenseType{LicensePerpetual, LicenseAnnual, LicenseMonthly, LicenseTrial}

var licenseTypeLabels = map[LicenseType]string{
	LicensePerpetual: "Licencia Perpetua",
	LicenseAnnual:    "Licencia Anual",
	LicenseMonthly:   "Licencia Mensual",
	LicenseTrial:     "Versión de Prueba",
}

func (t LicenseType) Valid() bool {
	_, ok := licenseTypeLabels[t]
	return ok
}

// Label returns the human readable name, or the raw value when unknown
func (t LicenseType) Label() string {
	if l, ok := licenseTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// ServiceType is the closed set of service offerings
type ServiceType string

const (
	ServiceWeb        ServiceType = "web"
	ServiceAI         ServiceType = "ia"
	ServiceChatbot    ServiceType = "chatbot"
	ServiceML         ServiceType = "ml"
	ServiceMobile     ServiceType = "mobile"
	ServiceIoT        ServiceType = "iot"
	ServiceNetworking ServiceType = "redes"
	ServiceAutomation ServiceType = "automatizacion"
	ServiceConsulting ServiceType = "consultoria"
)

var ServiceTypes = []ServiceType{
	ServiceWeb, ServiceAI, ServiceChatbot, ServiceML, ServiceMobile,
	ServiceIoT, ServiceNetworking, ServiceAutomation, ServiceConsulting,
}

var serviceTypeLabels = map[ServiceType]string{
	ServiceWeb:        "Desarrollo Web",
	ServiceAI:         "Agente de IA",
	ServiceChatbot:    "Chatbot",
	ServiceML:         "Machine Learning",
	ServiceMobile:     "App Móvil",
	ServiceIoT:        "Sistema IoT",
	ServiceNetworking: "Solución de Redes",
	ServiceAutomation: "Automatización",
	ServiceConsulting: "Consultoría",
}

func (t ServiceType) Valid() bool {
	_, ok := serviceTypeLabels[t]
	return ok
}

func (t ServiceType) Label() string {
	if l, ok := serviceTypeLabels[t]; ok {
		return l
	}
	return string(t)
}
