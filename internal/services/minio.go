package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"lunea_back_end/internal/database"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// UploadProductImage pousse une image dans le bucket et retourne le nom
// d'objet à stocker dans le document produit. Les URLs signées sont
// générées à la lecture, jamais persistées.
func UploadProductImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	objectName := fmt.Sprintf("products/%s%s", uuid.NewString(), filepath.Ext(file.Filename))
	bucket := os.Getenv("MINIO_BUCKET")

	_, err = database.MinIO.PutObject(ctx, bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	return objectName, nil
}

// GenerateSignedURL génère une URL de lecture temporaire pour un objet du
// bucket. Les références déjà absolues (http/https) sont rendues telles
// quelles : certains produits pointent vers des images externes.
func GenerateSignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if objectName == "" {
		return "", nil
	}
	if u, err := url.Parse(objectName); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return objectName, nil
	}
	if database.MinIO == nil {
		return objectName, nil
	}

	bucket := os.Getenv("MINIO_BUCKET")
	signed, err := database.MinIO.PresignedGetObject(ctx, bucket, objectName, expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return signed.String(), nil
}

// DeleteObject supprime une image du bucket (nettoyage après suppression
// d'un produit). Best effort.
func DeleteObject(ctx context.Context, objectName string) error {
	if database.MinIO == nil || objectName == "" {
		return nil
	}
	bucket := os.Getenv("MINIO_BUCKET")
	return database.MinIO.RemoveObject(ctx, bucket, objectName, minio.RemoveObjectOptions{})
}
