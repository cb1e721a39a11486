package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoleSchema represents the database schema for the rol table.
type RoleSchema struct {
	ID   uint8  `gorm:"column:id_rol;primaryKey;autoIncrement:false"` // Assigned identifier, not generated
	Name string `gorm:"column:nombre_rol;size:40;not null;uniqueIndex"`
}

// TableName specifies the table name for the RoleSchema model.
func (RoleSchema) TableName() string {
	return "rol"
}

// UserSchema represents the database schema for the usuario table.
type UserSchema struct {
	ID           int64      `gorm:"column:id_usuario;primaryKey;autoIncrement"`
	RoleID       uint8      `gorm:"column:id_rol;not null;index"`
	Role         RoleSchema `gorm:"foreignKey:RoleID;references:ID"`
	FullName     string     `gorm:"column:nombres;size:80;not null"`
	Email        string     `gorm:"column:correo_corp;size:120;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;size:255;not null"`
	Active       *bool      `gorm:"column:activo;not null;default:true"` // Pointer so an explicit false is written
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "usuario"
}

// ClientSchema represents the database schema for the cliente table.
type ClientSchema struct {
	ID    int64  `gorm:"column:id_cliente;primaryKey;autoIncrement"`
	Name  string `gorm:"column:nombre;size:120;not null"`
	Email string `gorm:"column:correo;size:120;not null;uniqueIndex"`
	Phone string `gorm:"column:telefono;size:30"`
}

// TableName specifies the table name for the ClientSchema model.
func (ClientSchema) TableName() string {
	return "cliente"
}

// ServiceRequestSchema represents the database schema for the solicitud table.
type ServiceRequestSchema struct {
	ID          int64        `gorm:"column:id_solicitud;primaryKey;autoIncrement"`
	ClientID    int64        `gorm:"column:id_cliente;not null;index"`
	Client      ClientSchema `gorm:"foreignKey:ClientID;references:ID"`
	Description string       `gorm:"column:descripcion;type:text;not null"`
	Status      string       `gorm:"column:estado;size:20;not null;default:'pendiente';check:chk_solicitud_estado,estado IN ('pendiente','procede','no procede')"`
	Channel     string       `gorm:"column:canal_ingreso;size:30;default:'Web Contacto'"`
	CreatedAt   time.Time    `gorm:"column:fecha_hora;not null;autoCreateTime;default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for the ServiceRequestSchema model.
func (ServiceRequestSchema) TableName() string {
	return "solicitud"
}

// QuoteSchema represents the database schema for the cotizacionpreliminar table.
type QuoteSchema struct {
	ID              int64                `gorm:"column:id_cotizacion;primaryKey;autoIncrement"`
	RequestID       int64                `gorm:"column:id_solicitud;not null;uniqueIndex"` // One quote per request
	Request         ServiceRequestSchema `gorm:"foreignKey:RequestID;references:ID"`
	EstimatedAmount decimal.Decimal      `gorm:"column:monto_estimado;type:decimal(14,2);not null"`
	Parameters      map[string]any       `gorm:"column:parametros_resumen;type:json;serializer:json"`
}

// TableName specifies the table name for the QuoteSchema model.
func (QuoteSchema) TableName() string {
	return "cotizacionpreliminar"
}

// Models lists every schema model in dependency order.
func Models() []any {
	return []any{
		&RoleSchema{},
		&UserSchema{},
		&ClientSchema{},
		&ServiceRequestSchema{},
		&QuoteSchema{},
	}
}
