package enums

import "fmt"

// QuotaResource names a usage counter tracked against a license limit.
type QuotaResource string

const (
	QuotaResourceStudents QuotaResource = "students"
	QuotaResourceAdmins   QuotaResource = "admins"
	QuotaResourcePrograms QuotaResource = "programs"
)

var validQuotaResources = []QuotaResource{
	QuotaResourceStudents,
	QuotaResourceAdmins,
	QuotaResourcePrograms,
}

// String implements fmt.Stringer.
func (q QuotaResource) String() string {
	return string(q)
}

// IsValid reports whether the value is a known quota resource.
func (q QuotaResource) IsValid() bool {
	for _, candidate := range validQuotaResources {
		if candidate == q {
			return true
		}
	}
	return false
}

// ParseQuotaResource converts raw input into a QuotaResource.
func ParseQuotaResource(value string) (QuotaResource, error) {
	for _, candidate := range validQuotaResources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quota resource %q", value)
}
