package dto

// DateLayout formato de fechas en peticiones y respuestas (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// PeriodRequest rango de fechas para informes (?from=&to=). Vacío = mes en curso.
type PeriodRequest struct {
	From string `query:"from"`
	To   string `query:"to"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
