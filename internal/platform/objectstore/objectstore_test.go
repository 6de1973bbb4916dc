package objectstore

import "testing"

func TestContentTypeForKey(t *testing.T) {
	cases := map[string]string{
		"job-1/resume_jane_doe.pdf": "application/pdf",
		"u/1700000000000.DOCX":      "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"u/1700000000000.doc":       "application/msword",
		"u/file.exe":                "",
		"u/file.pdf?x=1":            "application/pdf",
	}
	for key, want := range cases {
		if got := ContentTypeForKey(key); got != want {
			t.Fatalf("ContentTypeForKey(%q): want=%q got=%q", key, want, got)
		}
	}
}

func TestLastSegment(t *testing.T) {
	cases := map[string]string{
		"https://storage.googleapis.com/resumes/u1/1700.pdf":                         "1700.pdf",
		"https://cdn.example.com/u1/1700.pdf?v=2":                                    "1700.pdf",
		"http://fake-gcs:4443/storage/v1/b/resumes/o/u1%2F1700.pdf?alt=media":        "1700.pdf",
		"https://x.supabase.co/storage/v1/object/public/resumes/u1/1700.docx":        "1700.docx",
		"":                                                                           "",
	}
	for in, want := range cases {
		if got := LastSegment(in); got != want {
			t.Fatalf("LastSegment(%q): want=%q got=%q", in, want, got)
		}
	}
}
