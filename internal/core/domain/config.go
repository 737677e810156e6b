package domain

// Default configuration values.
const (
	// DefaultRelevanceThreshold is the maximum cosine distance for a
	// paragraph to count as relevant to a question.
	DefaultRelevanceThreshold = 0.30

	// DefaultTopK is the number of ranked paragraphs handed to the
	// language model as context.
	DefaultTopK = 5

	// DefaultLanguage restricts retrieval to paragraphs tagged with
	// this language code.
	DefaultLanguage = "es"

	// DefaultEmbeddingModel is the Ollama model used for embeddings.
	DefaultEmbeddingModel = "nomic-embed-text"

	// DefaultLLMModel is the Ollama model used to draft answers.
	DefaultLLMModel = "llama3.2"

	// DefaultOllamaURL is the local Ollama endpoint.
	DefaultOllamaURL = "http://localhost:11434"

	// DefaultTikaURL is the local Apache Tika server endpoint.
	DefaultTikaURL = "http://localhost:9998"
)

// Config holds the application configuration. Values are persisted as
// TOML and loaded at startup; zero values are replaced by defaults.
type Config struct {
	// Paths configures the directories the pipeline reads and writes.
	Paths PathsConfig `toml:"paths"`

	// Segmenter configures paragraph segmentation.
	Segmenter SegmenterConfig `toml:"segmenter"`

	// Retrieval configures similarity ranking and answering.
	Retrieval RetrievalConfig `toml:"retrieval"`

	// Services configures the external backends.
	Services ServicesConfig `toml:"services"`
}

// PathsConfig holds the directories used by ingestion.
type PathsConfig struct {
	// InputDir is watched for new source documents.
	InputDir string `toml:"input_dir"`

	// ProcessedDir receives the extracted text artifacts.
	ProcessedDir string `toml:"processed_dir"`

	// DatabasePath is the SQLite database location.
	DatabasePath string `toml:"database_path"`
}

// SegmenterConfig holds the segmentation thresholds. All lengths are
// measured in runes, not bytes.
type SegmenterConfig struct {
	MinTitleLength     int `toml:"min_title_length"`
	MinFragmentLength  int `toml:"min_fragment_length"`
	LengthThreshold    int `toml:"length_threshold"`
	MinParagraphLength int `toml:"min_paragraph_length"`
}

// RetrievalConfig holds the ranking and answering parameters.
type RetrievalConfig struct {
	RelevanceThreshold float64 `toml:"relevance_threshold"`
	TopK               int     `toml:"top_k"`
	Language           string  `toml:"language"`
}

// ServicesConfig holds the endpoints and models of external backends.
type ServicesConfig struct {
	OllamaURL      string `toml:"ollama_url"`
	TikaURL        string `toml:"tika_url"`
	EmbeddingModel string `toml:"embedding_model"`
	LLMModel       string `toml:"llm_model"`
}

// DefaultConfig returns a configuration populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			InputDir:     "input",
			ProcessedDir: "processed",
			DatabasePath: "docquery.db",
		},
		Segmenter: SegmenterConfig{
			MinTitleLength:     5,
			MinFragmentLength:  30,
			LengthThreshold:    400,
			MinParagraphLength: 100,
		},
		Retrieval: RetrievalConfig{
			RelevanceThreshold: DefaultRelevanceThreshold,
			TopK:               DefaultTopK,
			Language:           DefaultLanguage,
		},
		Services: ServicesConfig{
			OllamaURL:      DefaultOllamaURL,
			TikaURL:        DefaultTikaURL,
			EmbeddingModel: DefaultEmbeddingModel,
			LLMModel:       DefaultLLMModel,
		},
	}
}

// ApplyDefaults fills unset fields with their default values so a
// partially written config file still yields a usable configuration.
func (c *Config) ApplyDefaults() {
	def := DefaultConfig()

	if c.Paths.InputDir == "" {
		c.Paths.InputDir = def.Paths.InputDir
	}
	if c.Paths.ProcessedDir == "" {
		c.Paths.ProcessedDir = def.Paths.ProcessedDir
	}
	if c.Paths.DatabasePath == "" {
		c.Paths.DatabasePath = def.Paths.DatabasePath
	}
	if c.Segmenter.MinTitleLength == 0 {
		c.Segmenter.MinTitleLength = def.Segmenter.MinTitleLength
	}
	if c.Segmenter.MinFragmentLength == 0 {
		c.Segmenter.MinFragmentLength = def.Segmenter.MinFragmentLength
	}
	if c.Segmenter.LengthThreshold == 0 {
		c.Segmenter.LengthThreshold = def.Segmenter.LengthThreshold
	}
	if c.Segmenter.MinParagraphLength == 0 {
		c.Segmenter.MinParagraphLength = def.Segmenter.MinParagraphLength
	}
	if c.Retrieval.RelevanceThreshold == 0 {
		c.Retrieval.RelevanceThreshold = def.Retrieval.RelevanceThreshold
	}
	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = def.Retrieval.TopK
	}
	if c.Retrieval.Language == "" {
		c.Retrieval.Language = def.Retrieval.Language
	}
	if c.Services.OllamaURL == "" {
		c.Services.OllamaURL = def.Services.OllamaURL
	}
	if c.Services.TikaURL == "" {
		c.Services.TikaURL = def.Services.TikaURL
	}
	if c.Services.EmbeddingModel == "" {
		c.Services.EmbeddingModel = def.Services.EmbeddingModel
	}
	if c.Services.LLMModel == "" {
		c.Services.LLMModel = def.Services.LLMModel
	}
}
