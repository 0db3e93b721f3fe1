package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rg0now/next-migration-survey/pkg/framework"
	"github.com/rg0now/next-migration-survey/pkg/models"
	"github.com/rg0now/next-migration-survey/pkg/source"
)

func outcome(path, content string) models.FileOutcome {
	return source.Load(context.Background(), source.ReadDirect, source.NewMemoryHandle(path, []byte(content)))
}

func failed(path string) models.FileOutcome {
	return source.Load(context.Background(), source.ReadDirect, source.NewFailingHandle(path, errors.New("permission denied")))
}

func records(outcomes ...models.FileOutcome) []models.FileRecord {
	return source.Records(outcomes)
}

func TestAnalyzeCodeStructure(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		components []string
		hooks      int
	}{
		{
			name:       "function declarations",
			content:    "export default function Home() {\n  return <div/>\n}\nfunction helper() {}\n",
			components: []string{"Home"},
		},
		{
			name:       "arrow components",
			content:    "const Card = ({ title }) => <h1>{title}</h1>;\nexport const Badge: React.FC<Props> = (props) => null;\nconst Memo = memo((p) => null);\nconst value = () => 1;\n",
			components: []string{"Card", "Badge", "Memo"},
		},
		{
			name:       "class components",
			content:    "export default class Page extends React.Component {}\nclass Pure extends PureComponent {}\nclass Store {}\n",
			components: []string{"Page", "Pure"},
		},
		{
			name:       "hooks",
			content:    "function App() {\n  const [a] = useState(0);\n  useEffect(() => {}, []);\n  const r = useRouter();\n}\n",
			components: []string{"App"},
			hooks:      3,
		},
		{
			name:       "duplicate names counted once",
			content:    "function Box() {}\nfunction Box() {}\n",
			components: []string{"Box"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := analyzeCodeStructure(tt.content)
			assert.Equal(t, tt.components, cs.Components)
			assert.Equal(t, tt.hooks, cs.Hooks)
		})
	}
}

func TestExtractFacts_Empty(t *testing.T) {
	facts := ExtractFacts(nil, framework.NextJS())

	assert.Equal(t, 0, facts.TotalFiles)
	assert.Len(t, facts.FeatureUsage, len(framework.NextJS().Features()))
	for _, n := range facts.FeatureUsage {
		assert.Zero(t, n)
	}
}

func TestExtractFacts(t *testing.T) {
	files := []models.FileOutcome{
		outcome("pages/index.tsx", "import Link from 'next/link';\nimport Link2 from 'next/link';\nexport default function Home() { const r = useRouter(); return <Link/> }\n"),
		outcome("pages/about.jsx", "export default function About() { return null }\nexport async function getStaticProps() {}\n"),
		outcome("lib/data.ts", "export async function getServerSideProps() {}\n"),
		outcome("lib/util.js", "module.exports = {}\n"),
		outcome("styles/main.css", "body { color: red } /* next/image */\n"),
		outcome("styles/theme.SCSS", "$a: 1;\n"),
		outcome("pages/api/users.ts", "export default function handler() {}\n"),
		outcome(`pages\api\posts.js`, "export default function handler() {}\n"),
		outcome("README.md", "uses next/head\n"),
		failed("pages/broken.tsx"),
	}

	facts := ExtractFacts(files, framework.NextJS())

	assert.Equal(t, 10, facts.TotalFiles)
	assert.Equal(t, 3, facts.ScriptFiles)
	assert.Equal(t, 4, facts.TypedFiles)
	assert.Equal(t, 2, facts.StyleFiles)
	assert.Equal(t, 2, facts.APIRouteCount)
	assert.Equal(t, 1, facts.SkippedFiles)
	assert.Equal(t, 2, facts.ComponentCount)
	assert.Equal(t, 1, facts.HookCount)

	assert.Equal(t, 1, facts.FeatureUsage[framework.FeatureLink], "presence counts once per file")
	assert.Equal(t, 1, facts.FeatureUsage[framework.FeatureRouterHook])
	assert.Equal(t, 1, facts.FeatureUsage[framework.FeatureStaticProps])
	assert.Equal(t, 1, facts.FeatureUsage[framework.FeatureServerSideProps])
	assert.Equal(t, 0, facts.FeatureUsage[framework.FeatureImage], "style files are not scanned")
	assert.Equal(t, 0, facts.FeatureUsage[framework.FeatureHead], "markdown files are not scanned")
}

func TestAnalyzeComponents(t *testing.T) {
	files := []models.FileOutcome{
		outcome("pages/index.tsx", "import Image from 'next/image';\nexport default function Home() { return <Image/> }\n"),
		outcome("pages/posts.tsx", "export default function Posts() {}\nexport async function getServerSideProps() {}\n"),
		outcome("components/Button.jsx", "export const Button = (p) => <button/>;\nexport const Icon = () => null;\n"),
		outcome("components/List.tsx", "export function List() { const { data } = useSWR('/api'); }\n"),
		outcome("components/Nav.tsx", "import { usePathname } from 'next/navigation';\nexport function Nav() {}\n"),
		outcome("lib/fetch.ts", "import Link from 'next/link'; fetch('/x')\n"),
		failed("components/Broken.tsx"),
	}

	facts := AnalyzeComponents(files, framework.NextJS())

	assert.Equal(t, models.ComponentFacts{
		TotalComponents:             6,
		FrameworkSpecificComponents: 3,
		PortableComponents:          2,
		ComponentsWithDataFetching:  2,
		ComponentsWithRouting:       1,
	}, facts)
}

func TestIsCodeFile(t *testing.T) {
	for p, want := range map[string]bool{
		"pages/index.tsx":  true,
		"lib/util.JS":      true,
		"app/page.ts":      true,
		"components/x.jsx": true,
		"styles/site.css":  false,
		"README.md":        false,
		"next.config.mjs":  false,
		"Makefile":         false,
	} {
		assert.Equal(t, want, IsCodeFile(p), p)
	}
}
