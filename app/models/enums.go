package models

// Role defines the portal a user belongs to.
type Role string

const (
	RoleStudent      Role = "student"
	RoleGuardian     Role = "guardian"
	RoleTeacher      Role = "teacher"
	RoleAdmin        Role = "admin"
	RoleFinanceAdmin Role = "finance_admin"
)

// ActiveStatus defines whether a user or enrollment is active.
type ActiveStatus string

const (
	Active   ActiveStatus = "active"
	Inactive ActiveStatus = "inactive"
)

// PaymentStatus defines the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "pending"
	PaymentPendingReview PaymentStatus = "pending_review"
	PaymentRejected      PaymentStatus = "rejected"
	PaymentOverdue       PaymentStatus = "overdue"
	PaymentPaid          PaymentStatus = "paid"
	PaymentFailed        PaymentStatus = "failed"
	PaymentRefunded      PaymentStatus = "refunded"
)

// DayOfWeek defines the school days for subject schedules.
type DayOfWeek int

const (
	Monday DayOfWeek = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

var dayNames = map[DayOfWeek]string{
	Monday:    "Lunes",
	Tuesday:   "Martes",
	Wednesday: "Miércoles",
	Thursday:  "Jueves",
	Friday:    "Viernes",
}

func (d DayOfWeek) String() string {
	if name, ok := dayNames[d]; ok {
		return name
	}
	return "Desconocido"
}
