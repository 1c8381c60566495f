package doctors

// specializationEntry pairs the curated names and hospitals for one
// specialization.
type specializationEntry struct {
	names     []string
	hospitals []string
}

var specializationCatalog = map[string]specializationEntry{
	"neurologist": {
		names: []string{
			"Dr. A.B.M. Abdullah", "Dr. Md. Badrul Alam", "Dr. Quazi Deen Mohammad",
			"Dr. Md. Zahid Hossain", "Dr. Prof. M.A. Salam", "Dr. Nasreen Sultana",
		},
		hospitals: []string{
			"Bangabandhu Sheikh Mujib Medical University",
			"National Institute of Neurosciences & Hospital",
			"Dhaka Medical College Hospital",
			"Square Hospitals Ltd.",
		},
	},
	"cardiologist": {
		names: []string{
			"Dr. S.M. Mustafa Zaman", "Dr. Sohel Reza Choudhury", "Dr. Abu Siddique",
			"Dr. Md. Hafizur Rahman", "Dr. Prof. M. Amran Hossain", "Dr. Fatema Begum",
		},
		hospitals: []string{
			"National Heart Foundation Hospital & Research Institute",
			"Ibrahim Cardiac Hospital & Research Institute",
			"United Hospital Limited",
			"Evercare Hospital Dhaka",
		},
	},
	"orthopedic": {
		names: []string{
			"Dr. Md. Jahangir Alam", "Dr. A.K.M. Zahid Hossain", "Dr. Mohammad Humayun Kabir",
			"Dr. S.M. Ahsan Habib", "Dr. Prof. Md. Anwar Hossain", "Dr. Sabrina Yasmin",
		},
		hospitals: []string{
			"National Institute of Traumatology & Orthopaedic Rehabilitation",
			"Dhaka Medical College Hospital",
			"Square Hospitals Ltd.",
			"Labaid Specialized Hospital",
		},
	},
	"gastroenterologist": {
		names: []string{
			"Dr. Mohammad Ali", "Dr. Ferdous Ahmed Sarker", "Dr. S.M. Rafiqul Islam",
			"Dr. Md. Anisur Rahman", "Dr. Prof. Md. Faruque Pathan", "Dr. Nasima Akter",
		},
		hospitals: []string{
			"Bangabandhu Sheikh Mujib Medical University",
			"Apollo Hospitals Dhaka",
			"Labaid Specialized Hospital",
			"United Hospital Limited",
		},
	},
}

var defaultEntry = specializationEntry{
	names: []string{
		"Dr. Ahmed Rahman", "Dr. Fatima Begum", "Dr. Mohammad Ali",
		"Dr. Sabrina Chowdhury", "Dr. Rajib Hassan", "Dr. Nasrin Akter",
	},
	hospitals: []string{
		"Evercare Hospital Dhaka",
		"United Hospital Limited",
		"Square Hospital",
		"Labaid Specialized Hospital",
		"Apollo Hospitals Dhaka",
	},
}
