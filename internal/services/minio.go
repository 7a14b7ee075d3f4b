package services

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"velora_back_end/internal/database"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// UploadProductImage stocke une image produit dans MinIO et retourne sa clé d'objet
func UploadProductImage(productID string, file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	bucket := os.Getenv("MINIO_BUCKET")
	objectName := fmt.Sprintf("products/%s/%s%s", productID, uuid.NewString(), filepath.Ext(file.Filename))

	_, err = database.MinIO.PutObject(context.Background(), bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	log.Printf("🖼️ Image uploadée : %s", objectName)
	return objectName, nil
}

// PresignedImageURL génère une URL signée de lecture pour une image (1 heure)
func PresignedImageURL(objectName string) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	bucket := os.Getenv("MINIO_BUCKET")
	reqParams := make(url.Values)

	u, err := database.MinIO.PresignedGetObject(context.Background(), bucket, objectName, time.Hour, reqParams)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// DeleteProductImages supprime toutes les images d'un produit (préfixe products/<id>/)
func DeleteProductImages(productID string) error {
	if database.MinIO == nil {
		return fmt.Errorf("MinIO non initialisé")
	}

	ctx := context.Background()
	bucket := os.Getenv("MINIO_BUCKET")
	prefix := fmt.Sprintf("products/%s/", productID)

	for object := range database.MinIO.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if object.Err != nil {
			return object.Err
		}
		if err := database.MinIO.RemoveObject(ctx, bucket, object.Key, minio.RemoveObjectOptions{}); err != nil {
			return err
		}
	}
	return nil
}
