package apiv1

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/cardinsa/cardinsa/app/models"
	"github.com/cardinsa/cardinsa/app/repository"
	"github.com/cardinsa/cardinsa/internal/pkg/actorcontext"
	"github.com/cardinsa/cardinsa/internal/pkg/docstore"
)

var (
	docstoreClient *docstore.Client
	docstoreConfig *docstore.Config
	docstoreOnce   sync.Once
)

// getDocstore lazily initializes the shared document storage client.
// Returns nil when storage is disabled or misconfigured.
func getDocstore() (*docstore.Client, *docstore.Config) {
	docstoreOnce.Do(func() {
		cfg, err := docstore.LoadConfig()
		if err != nil {
			log.Errorf("[API] Document storage config invalid: %v", err)
			return
		}
		if !cfg.IsEnabled() {
			return
		}
		client, err := docstore.NewClient(cfg)
		if err != nil {
			log.Errorf("[API] Document storage unavailable: %v", err)
			return
		}
		docstoreClient = client
		docstoreConfig = cfg
	})
	return docstoreClient, docstoreConfig
}

// PostClaimDocument uploads a claim attachment to object storage and records
// its metadata on the claim.
func (s *APIServer) PostClaimDocument(c *fiber.Ctx) error {
	actor := actorcontext.Get(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "invalid claim id")
	}

	repos := repository.GetGlobalRepositories()
	claim, err := repos.Claim.GetByID(uint(id))
	if err != nil {
		return notFoundOrError(c, err, "claim not found")
	}
	if claim.CompanyID != actor.CompanyID {
		return notFound(c, "claim not found")
	}

	client, cfg := getDocstore()
	if client == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":   "service_unavailable",
			"message": "Document storage is not enabled",
		})
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		return badRequest(c, "multipart field 'document' is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return internalError(c, err)
	}
	defer file.Close()

	now := time.Now()
	objectKey := cfg.GetObjectKey(claim.ClaimNumber, uuid.New().String(), filepath.Ext(fileHeader.Filename), now.Year(), int(now.Month()))

	result, err := client.UploadDocument(c.Context(), objectKey, file, fileHeader.Size, fileHeader.Filename)
	if err != nil {
		return internalError(c, err)
	}

	doc := &models.ClaimDocument{
		ClaimID:     claim.ID,
		FileName:    fileHeader.Filename,
		ObjectKey:   result.ObjectKey,
		ContentType: result.ContentType,
		FileSize:    result.Size,
	}
	if actor.ActorID != 0 {
		uploadedBy := actor.ActorID
		doc.UploadedBy = &uploadedBy
	}
	if err := repos.Claim.AddDocument(doc); err != nil {
		return internalError(c, err)
	}

	s.audit.RecordInsert(actor, "claim_documents", doc.ID, doc)
	return c.Status(fiber.StatusCreated).JSON(doc)
}
