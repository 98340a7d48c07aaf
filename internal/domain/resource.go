package domain

// Instructor and Vehicle are reference records owned by other parts of the
// system; sessions point at them by ID.

type Instructor struct {
	InstructorID string `json:"instructorId" gorm:"primaryKey;column:instructor_id"`
	Name         string `json:"name"`
	LicenseNo    string `json:"licenseNo"`
	Phone        string `json:"phone"`
}

type Vehicle struct {
	VehicleID    string `json:"vehicleId" gorm:"primaryKey;column:vehicle_id"`
	PlateNo      string `json:"plateNo"`
	Model        string `json:"model"`
	Transmission string `json:"transmission"` // manual | automatic
}
