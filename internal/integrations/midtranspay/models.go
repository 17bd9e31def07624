package midtranspay

// SessionRequest параметры создания платежной сессии
type SessionRequest struct {
	OrderID       string
	GrossAmount   int64 // В минимальных единицах валюты
	CustomerName  string
	CustomerEmail string
	ItemID        string
	ItemName      string
}

// Session созданная платежная сессия Snap
type Session struct {
	Token       string
	RedirectURL string
}
