package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ai-interview-platform/internal/models"
	"alfredoptarigan/ai-interview-platform/internal/repositories"
	"alfredoptarigan/ai-interview-platform/internal/services"
)

// applicantAccess resolves the applicant named by a route parameter and
// checks that the caller is either that applicant's user or an admin.
type applicantAccess struct {
	applicantRepo repositories.ApplicantRepository
}

func (a applicantAccess) load(c *fiber.Ctx, param string) (*models.Applicant, error) {
	id, err := paramUUID(c, param)
	if err != nil {
		return nil, err
	}

	applicant, err := a.applicantRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if !canAccess(currentUser(c), applicant) {
		return nil, errForbidden
	}
	return applicant, nil
}

func canAccess(user *models.User, applicant *models.Applicant) bool {
	if user == nil {
		return false
	}
	return user.IsAdmin() || applicant.UserID == user.ID
}

// interview resolves the interview named by a route parameter and applies
// the same ownership rule through its applicant.
func (a applicantAccess) interview(c *fiber.Ctx, interviews services.InterviewService, param string) (*models.Interview, error) {
	id, err := paramUUID(c, param)
	if err != nil {
		return nil, err
	}

	interview, err := interviews.Get(id)
	if err != nil {
		return nil, err
	}

	applicant, err := a.applicantRepo.FindByID(interview.ApplicantID)
	if err != nil {
		return nil, err
	}

	if !canAccess(currentUser(c), applicant) {
		return nil, errForbidden
	}
	return interview, nil
}
