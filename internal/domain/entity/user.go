package entity

import "time"

// Roles de la aplicación. El motor de reglas asume que el llamador ya fue
// autorizado por el middleware; los roles solo gobiernan el acceso HTTP.
const (
	RoleAdmin       = "admin"
	RoleAcopiador   = "acopiador"   // registra entradas y consolida tambores
	RoleDespachador = "despachador" // arma y finaliza salidas
)

// User usuario del centro de acopio.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
