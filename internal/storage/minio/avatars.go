package minio

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/Vladiumnika/forumblackdynasty/internal/storage"
	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
)

const keyRoot = "avatars"

// extensions — расширение ключа по MIME-типу.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// userPrefix — все аватары пользователя лежат под avatars/<uid>/.
func userPrefix(userID uuid.UUID) string {
	return keyRoot + "/" + userID.String() + "/"
}

// AvatarUploadURL выдаёт presigned PUT на ключ avatars/<uid>/<uuid><ext>.
// Ошибки: storage.ErrInvalidArgument при недопустимом типе или размере.
func (a *Avatars) AvatarUploadURL(ctx context.Context, userID uuid.UUID, contentType string, contentLength int64) (*storage.UploadInfo, error) {
	const op = "storage/minio/AvatarUploadURL"

	contentType = strings.ToLower(strings.TrimSpace(contentType))

	if contentLength <= 0 || contentLength > a.limits.MaxSizeBytes {
		return nil, fmt.Errorf("%s: size %d: %w", op, contentLength, storage.ErrInvalidArgument)
	}

	if !a.allowed(contentType) {
		return nil, fmt.Errorf("%s: content type %q: %w", op, contentType, storage.ErrInvalidArgument)
	}

	key := path.Join(keyRoot, userID.String(), uuid.NewString()+extensions[contentType])

	u, err := a.client.PresignedPutObject(ctx, a.s3.Bucket, key, a.s3.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &storage.UploadInfo{
		UploadURL: u.String(),
		AvatarKey: key,
		Expires:   a.s3.PresignTTL,
		RequiredHeader: map[string]string{
			"Content-Type":   contentType,
			"Content-Length": strconv.FormatInt(contentLength, 10),
		},
	}, nil
}

// CheckAvatarUpload проверяет, что объект загружен под префиксом пользователя
// и укладывается в ограничения. Возвращает публичный URL либо "".
func (a *Avatars) CheckAvatarUpload(ctx context.Context, userID uuid.UUID, key string) (string, error) {
	const op = "storage/minio/CheckAvatarUpload"

	key = strings.TrimSpace(key)
	if !strings.HasPrefix(key, userPrefix(userID)) || strings.Contains(key, "..") {
		return "", fmt.Errorf("%s: foreign key: %w", op, storage.ErrInvalidArgument)
	}

	info, err := a.client.StatObject(ctx, a.s3.Bucket, key, mclient.StatObjectOptions{})
	if err != nil {
		resp := mclient.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("%s: %w", op, storage.ErrNotFoundAvatar)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if info.Size <= 0 || info.Size > a.limits.MaxSizeBytes {
		return "", fmt.Errorf("%s: size %d: %w", op, info.Size, storage.ErrInvalidArgument)
	}

	if ct := strings.ToLower(info.ContentType); ct != "" && !a.allowed(ct) {
		return "", fmt.Errorf("%s: content type %q: %w", op, ct, storage.ErrInvalidArgument)
	}

	return a.publicURL(key), nil
}

func (a *Avatars) publicURL(key string) string {
	if a.s3.PublicBaseURL == "" {
		return ""
	}

	return strings.TrimRight(a.s3.PublicBaseURL, "/") + "/" + key
}

func (a *Avatars) allowed(contentType string) bool {
	for _, ct := range a.limits.AllowedContentTypes {
		if strings.EqualFold(strings.TrimSpace(ct), contentType) {
			return true
		}
	}

	return false
}
