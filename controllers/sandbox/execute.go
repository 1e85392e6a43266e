package sandboxController

import (
	"fmt"
	"time"

	"learnhub/config"
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
)

// executeRequest is the payload sent to the external code runner
type executeRequest struct {
	Language string `json:"language"`
	Code     string `json:"code"`
	Stdin    string `json:"stdin,omitempty"`
}

// executeResponse is the runner's verdict. Execution results are advisory
// feedback for the learner; they never touch progress or completion.
type executeResponse struct {
	Success bool   `json:"success"`
	Output  string `json:"output"`
	Error   string `json:"error"`
}

var supportedLanguages = map[string]bool{
	"python":     true,
	"javascript": true,
	"html":       true,
}

// ExecuteCode forwards learner code to the sandbox runner with a bounded
// per-run time budget.
func ExecuteCode(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData := new(struct {
		Language string `json:"language"`
		Code     string `json:"code"`
		Stdin    string `json:"stdin"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Code == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Code is required!", nil)
	}
	if !supportedLanguages[reqData.Language] {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unsupported language!", nil)
	}

	// HTML renders client-side, nothing to run
	if reqData.Language == "html" {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Code executed successfully!", executeResponse{
			Success: true,
			Output:  reqData.Code,
		})
	}

	client := resty.New().
		SetTimeout(time.Duration(config.AppConfig.SandboxTimeoutSec+2) * time.Second)

	var result executeResponse
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", config.AppConfig.SandboxApiKey)).
		SetBody(executeRequest{
			Language: reqData.Language,
			Code:     reqData.Code,
			Stdin:    reqData.Stdin,
		}).
		SetResult(&result).
		Post(config.AppConfig.SandboxApiURL)

	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Code execution service unavailable!", nil)
	}
	if resp.StatusCode() != fiber.StatusOK {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Code execution failed!", fiber.Map{
			"status": resp.StatusCode(),
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Code executed successfully!", result)
}
