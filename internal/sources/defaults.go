package sources

import "github.com/kgrajski/neurotech-newshound/internal/record"

// Curated defaults seeded on first run. New entries added here are merged
// into existing registry files on load.
var defaultSources = []Source{
	{
		ID:       "pubmed",
		Name:     "PubMed",
		Category: record.CategoryDatabase,
		Type:     "api",
		Enabled:  true,
		Curated:  true,
	},
	{
		ID:       "biorxiv_neuro",
		Name:     "bioRxiv (neuroscience)",
		Category: record.CategoryPreprint,
		Type:     "rss",
		URL:      "https://connect.biorxiv.org/biorxiv_xml.php?subject=neuroscience",
		Enabled:  true,
		Curated:  true,
	},
	{
		ID:       "medrxiv",
		Name:     "medRxiv",
		Category: record.CategoryPreprint,
		Type:     "rss",
		URL:      "https://connect.medrxiv.org/medrxiv_xml.php",
		Enabled:  true,
		Curated:  true,
	},
	{
		ID:       "arxiv_qbio_nc",
		Name:     "arXiv q-bio.NC",
		Category: record.CategoryPreprint,
		Type:     "rss",
		URL:      "https://rss.arxiv.org/rss/q-bio.NC",
		Enabled:  true,
		Curated:  true,
	},
	{
		ID:       "nature_neuro",
		Name:     "Nature Neuroscience",
		Category: record.CategoryJournal,
		Type:     "rss",
		URL:      "https://www.nature.com/neuro.rss",
		Enabled:  true,
		Curated:  true,
	},
	{
		ID:       "nature_bme",
		Name:     "Nature Biomedical Engineering",
		Category: record.CategoryJournal,
		Type:     "rss",
		URL:      "https://www.nature.com/natbiomedeng.rss",
		Enabled:  true,
		Curated:  true,
	},
	{
		ID:       "jne",
		Name:     "Journal of Neural Engineering",
		Category: record.CategoryJournal,
		Type:     "rss",
		URL:      "https://iopscience.iop.org/journal/rss/1741-2552",
		Enabled:  true,
		Curated:  true,
	},
	{
		ID:       "neuron",
		Name:     "Neuron",
		Category: record.CategoryJournal,
		Type:     "rss",
		URL:      "https://www.cell.com/neuron/inpress.rss",
		Enabled:  true,
		Curated:  true,
	},
	{
		ID:       "sci_robotics",
		Name:     "Science Robotics",
		Category: record.CategoryJournal,
		Type:     "rss",
		URL:      "https://www.science.org/action/showFeed?type=etoc&feed=rss&jc=scirobotics",
		Enabled:  true,
		Curated:  true,
	},
	{
		ID:       "fda_medwatch",
		Name:     "FDA MedWatch Safety",
		Category: record.CategoryRegulatory,
		Type:     "rss",
		URL:      "http://www.fda.gov/AboutFDA/ContactFDA/StayInformed/RSSFeeds/MedWatch/rss.xml",
		Enabled:  true,
		Curated:  true,
	},
	{
		ID:       "nyt_science",
		Name:     "NYT Science",
		Category: record.CategoryPress,
		Type:     "rss",
		URL:      "https://rss.nytimes.com/services/xml/rss/nyt/Science.xml",
		Enabled:  true,
		Curated:  true,
	},
	{
		ID:       "nyt_health",
		Name:     "NYT Health",
		Category: record.CategoryPress,
		Type:     "rss",
		URL:      "https://rss.nytimes.com/services/xml/rss/nyt/Health.xml",
		Enabled:  true,
		Curated:  true,
	},
	{
		ID:       "ft_tech",
		Name:     "FT Technology",
		Category: record.CategoryPress,
		Type:     "rss",
		URL:      "https://www.ft.com/technology?format=rss",
		Enabled:  true,
		Curated:  true,
	},
	{
		ID:       "stat_news",
		Name:     "STAT News",
		Category: record.CategoryPress,
		Type:     "rss",
		URL:      "https://www.statnews.com/feed/",
		Enabled:  true,
		Curated:  true,
	},
	{
		ID:       "wideband_search",
		Name:     "Wideband Web Search",
		Category: record.CategorySearch,
		Type:     "search",
		Enabled:  true,
		Curated:  true,
	},
}
