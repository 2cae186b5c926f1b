package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"pablospizza/db"
	"pablospizza/models"
	"pablospizza/utils"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	uploadDir  = "./uploads/gallery"
	thumbWidth = 320
)

// UploadImage handles POST /api/gallery: multipart upload with an optional
// title, description and event_id. A thumbnail is generated alongside.
func UploadImage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}

	id := uuid.NewString()
	ext := filepath.Ext(utils.SanitizeFilename(header.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	name := id + ext
	dstPath := filepath.Join(uploadDir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to store image")
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to store image")
		return
	}
	dst.Close()

	thumbName := id + "_thumb" + ext
	thumbURL := ""
	if src, err := imaging.Open(dstPath); err == nil {
		thumb := imaging.Resize(src, thumbWidth, 0, imaging.Lanczos)
		if err := imaging.Save(thumb, filepath.Join(uploadDir, thumbName)); err == nil {
			thumbURL = fmt.Sprintf("/uploads/gallery/%s", thumbName)
		}
	}

	img := models.GalleryImage{
		ID:          id,
		URL:         fmt.Sprintf("/uploads/gallery/%s", name),
		ThumbURL:    thumbURL,
		EventID:     r.FormValue("event_id"),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		UploadedAt:  time.Now(),
		IsFeatured:  r.FormValue("is_featured") == "true",
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.GalleryCollection.InsertOne(ctx, img); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to save image record")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, img)
}

// GetImages handles GET /api/gallery with optional featured_only and event_id filters.
func GetImages(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if r.URL.Query().Get("featured_only") == "true" {
		filter["is_featured"] = true
	}
	if eventID := r.URL.Query().Get("event_id"); eventID != "" {
		filter["event_id"] = eventID
	}

	limit := int64(100)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.GalleryCollection.Find(ctx, filter,
		options.Find().SetSort(bson.M{"uploaded_at": -1}).SetLimit(limit))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer cur.Close(ctx)

	var images []models.GalleryImage
	if err := cur.All(ctx, &images); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "decode error")
		return
	}
	if images == nil {
		images = []models.GalleryImage{}
	}

	utils.RespondWithJSON(w, http.StatusOK, images)
}

type updateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsFeatured  *bool   `json:"is_featured"`
}

// UpdateImage handles PUT /api/gallery/:id
func UpdateImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	set := bson.M{}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.IsFeatured != nil {
		set["is_featured"] = *req.IsFeatured
	}
	if len(set) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.GalleryCollection.UpdateOne(ctx, bson.M{"id": ps.ByName("id")}, bson.M{"$set": set})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "update failed")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "image not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"updated": true})
}

// DeleteImage handles DELETE /api/gallery/:id, removing the record and the files.
func DeleteImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var img models.GalleryImage
	if err := db.GalleryCollection.FindOne(ctx, bson.M{"id": ps.ByName("id")}).Decode(&img); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "image not found")
		return
	}

	if _, err := db.GalleryCollection.DeleteOne(ctx, bson.M{"id": img.ID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "delete failed")
		return
	}

	for _, u := range []string{img.URL, img.ThumbURL} {
		if u == "" {
			continue
		}
		os.Remove("." + u)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"deleted": true})
}
