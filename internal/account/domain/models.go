package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// AccountType classifies ledger accounts. The names follow the Spanish
// chart of accounts the product ships with.
type AccountType string

const (
	TypeActivoCirculante AccountType = "activo_circulante"
	TypeActivoFijo       AccountType = "activo_fijo"
	TypePasivoCorto      AccountType = "pasivo_corto"
	TypePasivoLargo      AccountType = "pasivo_largo"
	TypeCapital          AccountType = "capital"
	TypeIngresos         AccountType = "ingresos"
	TypeCostos           AccountType = "costos"
	TypeGastos           AccountType = "gastos"
)

// Nature marks whether an account grows on the debit or the credit side.
type Nature string

const (
	NatureDebit  Nature = "debit"
	NatureCredit Nature = "credit"
)

// Epsilon is the tolerance used for every balance comparison (one cent).
var Epsilon = decimal.New(1, -2)

// Account is a chart-of-accounts entry carrying a running balance.
type Account struct {
	ID        snowflake.ID    `gorm:"primaryKey"`
	Code      string          `gorm:"type:text;not null;uniqueIndex:ux_accounts_code"`
	Name      string          `gorm:"type:text;not null"`
	Type      AccountType     `gorm:"type:text;not null;index"`
	Nature    Nature          `gorm:"type:text;not null"`
	Balance   decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0"`
	System    bool            `gorm:"not null;default:false"`
	Active    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Account) TableName() string { return "accounts" }

// ValidType reports whether t is a recognized account type.
func ValidType(t AccountType) bool {
	switch t {
	case TypeActivoCirculante, TypeActivoFijo, TypePasivoCorto, TypePasivoLargo,
		TypeCapital, TypeIngresos, TypeCostos, TypeGastos:
		return true
	default:
		return false
	}
}

// NatureOf returns the default nature for an account type.
func NatureOf(t AccountType) Nature {
	switch t {
	case TypeActivoCirculante, TypeActivoFijo, TypeCostos, TypeGastos:
		return NatureDebit
	default:
		return NatureCredit
	}
}

// IsAsset reports whether t belongs to the asset side of the balance sheet.
func IsAsset(t AccountType) bool {
	return t == TypeActivoCirculante || t == TypeActivoFijo
}

// IsLiability reports whether t belongs to the liability side.
func IsLiability(t AccountType) bool {
	return t == TypePasivoCorto || t == TypePasivoLargo
}

// CodeBase returns the first code of the numbering range for a type,
// matching the shipped chart (1101 for current assets, 6101 for costs).
func CodeBase(t AccountType) int {
	switch t {
	case TypeActivoCirculante:
		return 1100
	case TypeActivoFijo:
		return 1200
	case TypePasivoCorto:
		return 2100
	case TypePasivoLargo:
		return 2200
	case TypeCapital:
		return 3100
	case TypeIngresos:
		return 4100
	case TypeCostos:
		return 6100
	case TypeGastos:
		return 5100
	default:
		return 9900
	}
}

// SeedAccount describes one entry of the default chart of accounts.
type SeedAccount struct {
	Code   string
	Name   string
	Type   AccountType
	Nature Nature
	System bool
}

// DefaultChart is the chart of accounts seeded on first run. System
// accounts back the investment-recovery engine and cannot be retyped or
// deleted.
var DefaultChart = []SeedAccount{
	{Code: "1101", Name: "Caja General", Type: TypeActivoCirculante, Nature: NatureDebit},
	{Code: "1102", Name: "Caja Chica", Type: TypeActivoCirculante, Nature: NatureDebit},
	{Code: "1103", Name: "Bancos", Type: TypeActivoCirculante, Nature: NatureDebit},
	{Code: "1104", Name: "Cuentas por Cobrar", Type: TypeActivoCirculante, Nature: NatureDebit},
	{Code: "1105", Name: "Inventario de Mercancías", Type: TypeActivoCirculante, Nature: NatureDebit},
	{Code: "1106", Name: "Inventario Materia Prima", Type: TypeActivoCirculante, Nature: NatureDebit},

	{Code: "1201", Name: "Mobiliario y Equipo", Type: TypeActivoFijo, Nature: NatureDebit},
	{Code: "1202", Name: "Equipo de Cómputo", Type: TypeActivoFijo, Nature: NatureDebit},
	{Code: "1203", Name: "Maquinaria (Hornos)", Type: TypeActivoFijo, Nature: NatureDebit},
	{Code: "1204", Name: "Vehículos", Type: TypeActivoFijo, Nature: NatureDebit},
	{Code: "1205", Name: "Depreciación Acumulada", Type: TypeActivoFijo, Nature: NatureCredit},

	{Code: "2101", Name: "Proveedores", Type: TypePasivoCorto, Nature: NatureCredit},
	{Code: "2102", Name: "Acreedores Diversos", Type: TypePasivoCorto, Nature: NatureCredit},
	{Code: "2103", Name: "Impuestos por Pagar", Type: TypePasivoCorto, Nature: NatureCredit},
	{Code: "2104", Name: "Sueldos por Pagar", Type: TypePasivoCorto, Nature: NatureCredit},

	{Code: "2201", Name: "Préstamos Bancarios", Type: TypePasivoLargo, Nature: NatureCredit},
	{Code: "2202", Name: "Inversión por Amortizar", Type: TypePasivoLargo, Nature: NatureCredit, System: true},

	{Code: "3101", Name: "Capital Social", Type: TypeCapital, Nature: NatureCredit},
	{Code: "3102", Name: "Utilidades Retenidas", Type: TypeCapital, Nature: NatureCredit},
	{Code: "3103", Name: "Utilidad del Ejercicio", Type: TypeCapital, Nature: NatureCredit, System: true},
	{Code: "3104", Name: "Inversión Recuperada", Type: TypeCapital, Nature: NatureCredit, System: true},

	{Code: "4101", Name: "Ventas", Type: TypeIngresos, Nature: NatureCredit},
	{Code: "4102", Name: "Otros Ingresos", Type: TypeIngresos, Nature: NatureCredit},
	{Code: "4103", Name: "Descuentos sobre Ventas", Type: TypeIngresos, Nature: NatureDebit},

	{Code: "5101", Name: "Sueldos y Salarios", Type: TypeGastos, Nature: NatureDebit},
	{Code: "5102", Name: "Renta", Type: TypeGastos, Nature: NatureDebit},
	{Code: "5103", Name: "Servicios (Luz, Agua, Gas)", Type: TypeGastos, Nature: NatureDebit},
	{Code: "5104", Name: "Teléfono e Internet", Type: TypeGastos, Nature: NatureDebit},
	{Code: "5105", Name: "Publicidad", Type: TypeGastos, Nature: NatureDebit},
	{Code: "5106", Name: "Mantenimiento", Type: TypeGastos, Nature: NatureDebit},
	{Code: "5107", Name: "Gastos Diversos", Type: TypeGastos, Nature: NatureDebit},
	{Code: "5108", Name: "Depreciación", Type: TypeGastos, Nature: NatureDebit},

	{Code: "6101", Name: "Costo de Ventas", Type: TypeCostos, Nature: NatureDebit},
	{Code: "6102", Name: "Costo de Materia Prima", Type: TypeCostos, Nature: NatureDebit},
	{Code: "6103", Name: "Mermas y Desperdicios", Type: TypeCostos, Nature: NatureDebit},
}
