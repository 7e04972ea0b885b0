package model

type RevenueStats struct {
	Today float64 `json:"today"`
	Week  float64 `json:"week"`
	Month float64 `json:"month"`
}

type TechnicianStats struct {
	Active    int `json:"active"`
	OnJob     int `json:"onJob"`
	Available int `json:"available"`
}

type JobStats struct {
	Scheduled      int `json:"scheduled"`
	InProgress     int `json:"inProgress"`
	CompletedToday int `json:"completedToday"`
	CompletedWeek  int `json:"completedWeek"`
}

type InvoiceStats struct {
	Unpaid        float64 `json:"unpaid"`
	Overdue       float64 `json:"overdue"`
	PaidThisMonth float64 `json:"paidThisMonth"`
}

type DashboardStats struct {
	TotalCustomers  int             `json:"totalCustomers"`
	ActiveJobs      int             `json:"activeJobs"`
	PendingRequests int             `json:"pendingRequests"`
	Revenue         RevenueStats    `json:"revenue"`
	TechnicianStats TechnicianStats `json:"technicianStats"`
	JobStats        JobStats        `json:"jobStats"`
	InvoiceStats    InvoiceStats    `json:"invoiceStats"`
}

type RevenueRow struct {
	Period  string  `db:"period" json:"period"`
	Revenue float64 `db:"revenue" json:"revenue"`
	Cost    float64 `db:"cost" json:"cost"`
	Profit  float64 `db:"profit" json:"profit"`
}

type TechnicianReportRow struct {
	TechnicianID   int     `db:"technician_id" json:"technicianId"`
	TechnicianName string  `db:"technician_name" json:"technicianName"`
	JobsCompleted  int     `db:"jobs_completed" json:"jobsCompleted"`
	Revenue        float64 `db:"revenue" json:"revenue"`
	AvgRating      float64 `db:"avg_rating" json:"avgRating"`
	HoursWorked    float64 `db:"hours_worked" json:"hoursWorked"`
}

type JobStatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int    `db:"count" json:"count"`
}

type ServiceTypeRow struct {
	ServiceType string  `db:"service_type" json:"serviceType"`
	Count       int     `db:"count" json:"count"`
	Revenue     float64 `db:"revenue" json:"revenue"`
}

// ReportRange bounds a report query; GroupBy is day, week or month.
type ReportRange struct {
	Start   string
	End     string
	GroupBy string
}
