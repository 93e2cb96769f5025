package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path"

	"github.com/gocql/gocql"
	"github.com/minio/minio-go/v7"
)

// MediaService stocke les images produit dans MinIO
type MediaService struct {
	client *minio.Client
	bucket string
}

func NewMediaService(client *minio.Client) *MediaService {
	return &MediaService{
		client: client,
		bucket: os.Getenv("MINIO_BUCKET"),
	}
}

// UploadProductImage téléverse une image et retourne son URL publique.
// Le nom d'objet est préfixé par l'id produit pour éviter les collisions.
func (s *MediaService) UploadProductImage(ctx context.Context, productID string, file *multipart.FileHeader) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	objectName := path.Join("products", productID, gocql.TimeUUID().String()+path.Ext(file.Filename))
	_, err = s.client.PutObject(ctx, s.bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	scheme := "http"
	if os.Getenv("MINIO_USE_SSL") == "true" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, os.Getenv("MINIO_ENDPOINT"), s.bucket, objectName), nil
}
