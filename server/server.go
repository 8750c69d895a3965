package server

import (
	"strconv"
	"strings"
	"time"

	"newswire/auth"
	"newswire/db"
	"newswire/feeds"
	"newswire/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"
)

const (
	// Page size for the article list and the personalized feed
	articlesPerPage = 10
	// Page size for the source list
	sourcesPerPage = 15
)

type ServerConfig struct {

	// The reader to use for queries
	Reader *db.Reader

	// The writer to use for preference updates
	Writer *db.Writer

	// Verifier resolves bearer tokens to user ids
	Verifier auth.Verifier
}

// Returns a fiber.App instance to be used as the HTTP server for the
// newswire article API
func Server(config *ServerConfig) *fiber.App {

	app := fiber.New()

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"latency": time.Since(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.ConfigDefault))
	app.Use(compress.New())

	// Every route requires a verified session token
	app.Use(func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthenticated."})
		}
		userId, err := config.Verifier.VerifyToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthenticated."})
		}
		c.Locals("userId", userId)
		return c.Next()
	})

	app.Get("/articles", func(c *fiber.Ctx) error {
		filter := models.ArticleFilter{
			Keyword:  c.Query("keyword"),
			Date:     c.Query("date"),
			Category: c.Query("category"),
			Author:   c.Query("author"),
			Source:   c.Query("source"),
		}

		if filter.Date != "" {
			if _, err := time.Parse("2006-01-02", filter.Date); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid date format."})
			}
		}

		result, err := config.Reader.QueryArticles(c.Context(), feeds.FiltersFromParams(filter), pageParam(c), articlesPerPage)
		if err != nil {
			log.WithError(err).Error("Error querying articles")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error querying articles."})
		}

		return c.JSON(result)
	})

	app.Get("/articles/:id", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Article not found."})
		}

		article, err := config.Reader.GetArticle(c.Context(), int64(id))
		if err != nil {
			log.WithError(err).Error("Error getting article")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error getting article."})
		}
		if article == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Article not found."})
		}

		return c.JSON(article)
	})

	app.Get("/feed", func(c *fiber.Ctx) error {
		userId := c.Locals("userId").(int64)

		preferences, err := config.Reader.GetPreferences(c.Context(), userId)
		if err != nil {
			log.WithError(err).Error("Error reading preferences")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error building feed."})
		}

		result, err := config.Reader.QueryArticles(c.Context(), feeds.FiltersFromPreferences(preferences), pageParam(c), articlesPerPage)
		if err != nil {
			log.WithError(err).Error("Error querying feed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error building feed."})
		}

		return c.JSON(result)
	})

	app.Get("/sources", func(c *fiber.Ctx) error {
		result, err := config.Reader.ListSources(c.Context(), pageParam(c), sourcesPerPage)
		if err != nil {
			log.WithError(err).Error("Error listing sources")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error listing sources."})
		}

		return c.JSON(result)
	})

	app.Get("/preferences", func(c *fiber.Ctx) error {
		userId := c.Locals("userId").(int64)

		preferences, err := config.Reader.GetPreferences(c.Context(), userId)
		if err != nil {
			log.WithError(err).Error("Error reading preferences")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error reading preferences."})
		}
		if preferences == nil {
			preferences = []models.UserPreference{}
		}

		return c.JSON(preferences)
	})

	app.Post("/preferences", func(c *fiber.Ctx) error {
		userId := c.Locals("userId").(int64)

		var body preferencesRequest
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "The given data was invalid.",
				"errors":  fiber.Map{"preferences": []string{"The preferences field must be an array."}},
			})
		}

		preferences, errs := validatePreferences(body)
		if len(errs) > 0 {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "The given data was invalid.",
				"errors":  errs,
			})
		}

		if err := config.Writer.ReplacePreferences(c.Context(), userId, preferences); err != nil {
			log.WithError(err).Error("Error updating preferences")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error updating preferences."})
		}

		return c.JSON(fiber.Map{"message": "Preferences updated successfully."})
	})

	return app
}

type preferenceInput struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type preferencesRequest struct {
	Preferences []preferenceInput `json:"preferences"`
}

// validatePreferences checks each entry for a known type and a non-empty
// value, returning field-level errors keyed the way the API documents them.
func validatePreferences(body preferencesRequest) ([]models.UserPreference, map[string][]string) {
	errs := map[string][]string{}

	if len(body.Preferences) == 0 {
		errs["preferences"] = []string{"The preferences field is required."}
		return nil, errs
	}

	preferences := make([]models.UserPreference, 0, len(body.Preferences))
	for i, input := range body.Preferences {
		preferenceType := models.PreferenceType(input.Type)
		if !preferenceType.Valid() {
			key := fiberPreferenceField(i, "type")
			errs[key] = append(errs[key], "The selected type is invalid.")
			continue
		}
		if strings.TrimSpace(input.Value) == "" {
			key := fiberPreferenceField(i, "value")
			errs[key] = append(errs[key], "The value field is required.")
			continue
		}
		preferences = append(preferences, models.UserPreference{
			Type:  preferenceType,
			Value: input.Value,
		})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return preferences, nil
}

func fiberPreferenceField(index int, field string) string {
	return "preferences." + strconv.Itoa(index) + "." + field
}

func pageParam(c *fiber.Ctx) int {
	// Out-of-range and non-numeric page values fall back to the first page
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	return page
}
