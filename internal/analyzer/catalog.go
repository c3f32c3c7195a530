package analyzer

// EducationLevel 学历关键词与对应分数
type EducationLevel struct {
	Keyword string
	Score   int
}

// TrendingCategory 按领域划分的热门技能组
type TrendingCategory struct {
	Name   string
	Skills []string
}

// Catalog 评分引擎和建议生成器共享的关键词目录。
// 进程级静态数据，启动时构造一次，之后只读；
// 通过构造函数注入以便在测试中替换。
type Catalog struct {
	// 高价值技术技能（不区分大小写的子串匹配）
	TechnicalSkills []string
	// 软技能
	SoftSkills []string
	// 资深职位关键词
	SeniorityKeywords []string
	// 学历等级表，按条目顺序匹配，每条经历取第一个命中
	EducationLevels []EducationLevel
	// 项目复杂度关键词
	ComplexityKeywords []string
	// 高含金量认证关键词
	ValuableCerts []string
	// 按领域划分的热门技能
	TrendingSkills []TrendingCategory
	// 弱动词短语与强动词
	WeakVerbs   []string
	StrongVerbs []string
	// 教育细节关键词（荣誉、GPA等）
	HonorsKeywords []string
	// 作品集链接关键词
	PortfolioKeywords []string
}

var defaultCatalog = &Catalog{
	TechnicalSkills: []string{
		"python", "javascript", "react", "node.js", "aws", "docker", "kubernetes",
		"machine learning", "ai", "data science", "sql", "postgresql", "mongodb",
		"git", "agile", "scrum", "devops", "cloud computing", "microservices", "api",
		"tensorflow", "pytorch", "django", "flask", "spring boot", "angular",
		"vue.js", "typescript", "java", "c++", "golang", "rust", "kotlin", "swift",
	},
	SoftSkills: []string{
		"leadership", "communication", "teamwork", "problem solving",
		"critical thinking", "project management", "time management",
		"analytical", "creative", "adaptable",
	},
	SeniorityKeywords: []string{
		"senior", "lead", "manager", "director", "architect", "principal", "head", "chief",
	},
	EducationLevels: []EducationLevel{
		{"phd", 100},
		{"doctorate", 100},
		{"master", 85},
		{"mba", 85},
		{"bachelor", 70},
		{"associate", 50},
		{"diploma", 40},
		{"certificate", 30},
	},
	ComplexityKeywords: []string{
		"machine learning", "ai", "full stack", "microservices", "cloud", "api",
		"database", "web application", "mobile app", "deployment", "production",
	},
	ValuableCerts: []string{
		"aws", "azure", "google cloud", "pmp", "scrum master", "cissp", "ceh",
		"cisa", "comptia", "cisco", "oracle", "microsoft", "salesforce",
	},
	TrendingSkills: []TrendingCategory{
		{"software_development", []string{
			"React", "Node.js", "TypeScript", "Docker", "Kubernetes", "AWS",
			"Microservices", "GraphQL", "Next.js", "Tailwind CSS",
		}},
		{"data_science", []string{
			"Python", "Machine Learning", "Deep Learning", "TensorFlow", "PyTorch",
			"Data Visualization", "SQL", "Big Data", "Apache Spark", "MLOps",
		}},
		{"cloud_computing", []string{
			"AWS", "Azure", "Google Cloud Platform", "Terraform", "Ansible",
			"Jenkins", "GitLab CI/CD", "Prometheus", "Grafana", "Service Mesh",
		}},
		{"cybersecurity", []string{
			"Penetration Testing", "SIEM", "Incident Response", "Vulnerability Assessment",
			"Cloud Security", "Zero Trust", "DevSecOps", "Threat Hunting",
			"Compliance", "Risk Assessment",
		}},
	},
	WeakVerbs:   []string{"responsible for", "worked on", "helped with"},
	StrongVerbs: []string{"led", "developed", "implemented", "optimized", "achieved"},
	HonorsKeywords: []string{
		"gpa", "honors", "dean's list", "summa cum laude", "magna cum laude",
	},
	PortfolioKeywords: []string{"github", "gitlab", "portfolio", "demo", "live"},
}

// DefaultCatalog 返回内置的关键词目录
func DefaultCatalog() *Catalog {
	return defaultCatalog
}
