package students

import (
	"github.com/FelipeHuencho/intranet-csah/app/config"
	"github.com/FelipeHuencho/intranet-csah/app/database"
	"github.com/gofiber/fiber/v2"
)

// GetMyGradesAPI returns the authenticated student's scores grouped by
// subject with weighted averages.
func GetMyGradesAPI(c *fiber.Ctx) error {
	studentID := c.Locals("user_id").(string)

	grades, err := database.GetGradesForStudent(config.GetDB(), studentID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch grades"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    grades,
	})
}

// GetMyScheduleAPI returns the student's weekly schedule slots.
func GetMyScheduleAPI(c *fiber.Ctx) error {
	studentID := c.Locals("user_id").(string)

	slots, err := database.GetWeeklyScheduleForStudent(config.GetDB(), studentID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch schedule"})
	}

	type slotItem struct {
		Subject   string `json:"subject"`
		Day       string `json:"day"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}

	items := make([]slotItem, 0, len(slots))
	for _, s := range slots {
		items = append(items, slotItem{
			Subject:   s.Subject.Name,
			Day:       s.DayOfWeek.String(),
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    items,
	})
}

// GetMyAttendanceAPI returns the student's attendance summary.
func GetMyAttendanceAPI(c *fiber.Ctx) error {
	studentID := c.Locals("user_id").(string)

	summary, err := database.GetAttendanceSummary(config.GetDB(), studentID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch attendance"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    summary,
	})
}
