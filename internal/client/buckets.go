package client

// Storage bucket identifiers.
const (
	BucketStudentPhotos = "student-photos"
	BucketFaceProfiles  = "face-profiles"
	BucketDocuments     = "documents"
	BucketAvatars       = "avatars"
	BucketReports       = "reports"
)

func Buckets() []string {
	return []string{
		BucketStudentPhotos,
		BucketFaceProfiles,
		BucketDocuments,
		BucketAvatars,
		BucketReports,
	}
}
