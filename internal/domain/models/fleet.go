package models

type Vehicle struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	PlateNumber  string `json:"plate_number"`
	Capacity     int    `json:"capacity"`
	WifiSSID     string `json:"wifi_ssid,omitempty"`
	WifiPassword string `json:"wifi_password,omitempty"`
	DriverID     int64  `json:"driver_id,omitempty"`
	Status       string `json:"status"`
}

type Driver struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number"`
	Status        string `json:"status"`
}

type Route struct {
	ID           int64  `json:"id"`
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	PricePerSeat int64  `json:"price_per_seat"`
	CharterPrice int64  `json:"charter_price"`
	Status       string `json:"status"`
}
