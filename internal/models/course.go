package models

import "time"

// Course is one department offering in one mode. The (course_code, mode)
// pair is unique: the same code may appear once per mode.
type Course struct {
	ID         string     `db:"id" json:"id"`
	Code       string     `db:"course_code" json:"courseId"`
	Title      string     `db:"course_title" json:"courseTitle"`
	Department Department `db:"department" json:"department"`
	Year       int        `db:"year" json:"year"`
	Semester   int        `db:"semester" json:"semester"`
	Mode       Mode       `db:"mode" json:"mode"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updatedAt"`
}

// MaxYear returns the highest course year a department offers.
// Accountancy runs four years; IT and English run two.
func MaxYear(d Department) int {
	if d == DepartmentAccountancy {
		return 4
	}
	return 2
}
