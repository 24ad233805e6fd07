package report

// Section is one independently queried chapter of the weekly report.
// Querying per section keeps each answer inside the notebook's single
// response length cap.
type Section struct {
	Title    string
	Question string
}

// Placeholder stands in for a section whose query failed; the reader can
// still open the notebook directly.
const Placeholder = "（此章節查詢失敗，請直接開啟 NotebookLM 筆記本查看。）"

// Sections defines the weekly report structure in reading order.
var Sections = []Section{
	{
		Title: "一、宏觀經濟與全球市場總覽",
		Question: "請用繁體中文，針對本週各 Podcast 節目中涉及的所有宏觀經濟議題，" +
			"提供極為詳盡的深度分析報告。\n\n" +
			"請完整涵蓋節目中討論到的每一個總體經濟主題，每個子項目須充分展開，" +
			"引用節目中提到的具體數字、數據、預測與主持人觀點，不要省略細節。\n\n" +
			"分析架構建議（依節目實際內容靈活調整）：\n" +
			"1. 主要央行貨幣政策動向與市場預期\n" +
			"2. 貿易政策、關稅或政府政策對市場的影響\n" +
			"3. 全球與區域主要股市的表現與資金流向\n" +
			"4. 地緣政治風險與對資本市場的潛在衝擊\n" +
			"5. 匯率走勢、原物料與大宗商品動態\n" +
			"6. 景氣週期判斷與中長期總體展望\n\n" +
			"目標：讓讀者讀完後對本週總體經濟環境有完整且深入的理解。",
	},
	{
		Title: "二、個股與產業深度分析",
		Question: "請用繁體中文，將本週各 Podcast 節目中提到的所有個股與產業，" +
			"進行逐一深度分析，不要遺漏任何一支個股或產業群組。\n\n" +
			"【重要】台股與美股個股皆須完整納入分析。" +
			"節目中提到的所有美股（例如 NVDA、AAPL、TSLA、META 等）必須與台股同等對待，不得遺漏。\n\n" +
			"每支個股或每個子產業的分析須充分展開，包含：\n" +
			"- 節目討論的基本面現況與數據（營收、獲利、EPS 預估、本益比、目標價等）\n" +
			"- 產業趨勢與競爭格局\n" +
			"- 主持人或來賓的投資觀點、評等與操作建議\n" +
			"- 【重點】主持人推薦或看好該股的完整投資邏輯：\n" +
			"    * 他/她為什麼看好或看壞這支股票？核心理由是什麼？\n" +
			"    * 背後的思考框架與分析方法（例如：用本益比、產業趨勢、護城河、供需缺口等角度）\n" +
			"    * 是什麼觸發他/她現在討論這支股票？有何時機判斷？\n" +
			"    * 他/她預期的股價催化劑或關鍵轉折點為何？\n" +
			"    * 他/她設定的停損或出場條件是什麼？\n" +
			"- 潛在上行催化劑與下行風險\n\n" +
			"請先依市場分組（台股 / 美股 / 其他），再依產業類別分組（例如：科技、半導體、能源、金融、傳統產業等），" +
			"每個類別下再逐一展開個股分析。\n\n" +
			"目標：讀者不只知道主持人推薦什麼，更能完全理解他/她為什麼這樣想、怎麼想到的。",
	},
	{
		Title: "三、各節目逐集完整內容摘要",
		Question: "請用繁體中文，對本週收錄的每一集 Podcast，" +
			"逐集提供完整且詳盡的內容摘要。\n\n" +
			"每集摘要須達到足夠深度，讓完全沒有收聽的讀者也能完整掌握該集所有重點。" +
			"每集至少涵蓋：\n" +
			"1. 本集核心主題與主持人的開場論點\n" +
			"2. 主要觀點與完整論述邏輯（詳細展開，不要壓縮或跳過論述過程）\n" +
			"3. 節目中引用的具體數字、案例、研究或歷史背景\n" +
			"4. 【重點】主持人的投資思維與決策邏輯：\n" +
			"    * 他/她是如何分析問題、得出結論的？思考路徑是什麼？\n" +
			"    * 他/她看事情的獨特視角或框架（例如：總經驅動、籌碼面、產業趨勢、價值投資等）\n" +
			"    * 他/她為何在此時提出這個觀點？背後的時機判斷是什麼？\n" +
			"    * 他/她對市場共識的看法：是順勢還是逆勢思考？\n" +
			"5. 對投資人的明確建議、操作策略或風險提示\n" +
			"6. 本集中最值得關注的獨特見解或預測\n\n" +
			"請在每集標題標明節目名稱與播出日期，並依播出時間順序排列。",
	},
	{
		Title: "四、投資策略總結與關鍵風險提示",
		Question: "請用繁體中文，綜合本週所有 Podcast 節目的觀點，" +
			"提供完整的投資策略總結與風險分析。\n\n" +
			"每個子項目須充分展開，給出具體且有深度的分析：\n" +
			"1. 本週整體市場情緒判斷：多頭 / 空頭 / 震盪？各節目觀點是否一致或存在分歧？\n" +
			"2. 【重點】各主持人的投資哲學與風格比較：\n" +
			"    * 不同主持人面對相同市場環境時，思考角度有何不同？\n" +
			"    * 誰偏向保守、誰偏向積極？各自的理由是什麼？\n" +
			"    * 本週各節目的觀點在哪些地方不謀而合、在哪些地方出現分歧？分歧的根本原因是什麼？\n" +
			"3. 短線操作方向（近一個月）：節目中提到哪些近期布局機會與進出場條件？\n" +
			"4. 中線趨勢布局（三至六個月）：哪些趨勢值得中線持有？論述依據為何？\n" +
			"5. 長線核心配置邏輯（一年以上）：哪些產業或資產被視為長期結構性機會？\n" +
			"6. 需特別警惕的風險因子：節目中提到的黑天鵝、政策風險、估值風險或流動性風險\n" +
			"7. 未來需持續追蹤的關鍵指標與事件：哪些數據或消息面將左右後市？\n" +
			"8. 資產配置建議：節目中對股票、債券、黃金、現金的配置有何觀點？",
	},
	{
		Title: "五、本週個股推薦總表",
		Question: "請用繁體中文，將本週所有 Podcast 節目中提到的個股或投資標的，" +
			"整理成一份結構化的 Markdown 表格，格式如下：\n\n" +
			"| 股票代號／名稱 | 市場 | 推薦方向 | 推薦理由（投資邏輯） | 推薦人／節目 |\n" +
			"|---|---|---|---|---|\n\n" +
			"欄位說明：\n" +
			"- 股票代號／名稱：台股填代號加公司名稱（例如：2330 台積電）；" +
			"美股填英文代號加中文名稱（例如：NVDA 輝達、AAPL 蘋果、TSLA 特斯拉）\n" +
			"- 市場：台股 🇹🇼 / 美股 🇺🇸 / 其他\n" +
			"- 推薦方向：看多 📈 / 看空 📉 / 觀察 👀\n" +
			"- 推薦理由（投資邏輯）：主持人推薦的核心理由，" +
			"說明他/她為什麼看好或看壞，以及背後的思考邏輯，盡量詳細（至少 50 字）\n" +
			"- 推薦人／節目：哪個節目的哪位主持人提出\n\n" +
			"【重要】台股與美股皆須列入，不得遺漏任何一支節目中提及的美股標的。" +
			"若同一支股票被多個節目提及，請分開列出各自的觀點。",
	},
}
