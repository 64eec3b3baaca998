package presenter

import (
	ocrDTO "github.com/aigymos/gym-console/internal/adapter/dto/ocr"
	ocrUsecase "github.com/aigymos/gym-console/internal/usecase/ocr"
)

// ToPhotoResponses converts archive links to DTOs
func ToPhotoResponses(links []ocrUsecase.PhotoLink) []ocrDTO.PhotoResponse {
	responses := make([]ocrDTO.PhotoResponse, 0, len(links))
	for _, link := range links {
		if link.Photo == nil {
			continue
		}
		photo := link.Photo
		response := ocrDTO.PhotoResponse{
			ID:          photo.ID.String(),
			ObjectKey:   photo.ObjectKey,
			ContentType: photo.ContentType,
			SizeBytes:   photo.SizeBytes,
			UploadedBy:  photo.UploadedBy.String(),
			URL:         link.URL,
			CreatedAt:   photo.CreatedAt,
		}
		if name, ok := photo.Metadata["filename"].(string); ok {
			response.Filename = name
		}
		responses = append(responses, response)
	}
	return responses
}
